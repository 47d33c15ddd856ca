package validation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kbukum/credkit/auth/password"
	"github.com/kbukum/credkit/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("nome", "Ana")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	for _, value := range []string{"", "   "} {
		v := New().Required("nome", value)
		if !v.HasErrors() {
			t.Errorf("expected error for %q", value)
		}
		if v.Errors()[0].Code != errors.ErrCodeMissingField {
			t.Errorf("expected MISSING_FIELD, got %s", v.Errors()[0].Code)
		}
	}
}

func TestValidatorMaxLength_CountsCharacters(t *testing.T) {
	if New().MaxLength("cidade", "São Paulo", 9).HasErrors() {
		t.Error("expected 9 characters to fit max 9")
	}
	v := New().MaxLength("estado", "SPX", 2)
	if !v.HasErrors() || v.Errors()[0].Code != errors.ErrCodeTooLong {
		t.Errorf("expected TOO_LONG, got %v", v.Errors())
	}
}

func TestValidatorMinLength(t *testing.T) {
	if !New().MinLength("cep", "123", 8).HasErrors() {
		t.Error("expected error for short value")
	}
	if New().MinLength("cep", "01310100", 8).HasErrors() {
		t.Error("expected no error at min length")
	}
}

func TestValidatorPattern(t *testing.T) {
	if New().Pattern("cep", "01310100", `^\d{8}$`).HasErrors() {
		t.Error("expected match")
	}
	if !New().Pattern("cep", "0131-0100", `^\d{8}$`).HasErrors() {
		t.Error("expected mismatch")
	}
	if New().Pattern("cep", "", `^\d{8}$`).HasErrors() {
		t.Error("empty values are skipped")
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"admin", "user"}
	if New().OneOf("tipo_acesso", "admin", allowed).HasErrors() {
		t.Error("expected allowed value to pass")
	}
	if !New().OneOf("tipo_acesso", "root", allowed).HasErrors() {
		t.Error("expected disallowed value to fail")
	}
}

func TestValidatorCPF(t *testing.T) {
	if New().CPF("cpf", "529.982.247-25").HasErrors() {
		t.Error("expected valid CPF to pass")
	}

	tests := []struct {
		value string
		code  errors.ErrorCode
	}{
		{"123", errors.ErrCodeWrongLength},
		{"111.111.111-11", errors.ErrCodeRepeatedDigits},
		{"529.982.247-26", errors.ErrCodeInvalidChecksum},
	}
	for _, tc := range tests {
		v := New().CPF("cpf", tc.value)
		if !v.HasErrors() || v.Errors()[0].Code != tc.code {
			t.Errorf("%s: expected %s, got %v", tc.value, tc.code, v.Errors())
		}
	}
}

func TestValidatorPassword(t *testing.T) {
	if New().Password("password", "Str0ng!Pass", password.Config{}).HasErrors() {
		t.Error("expected strong password to pass")
	}
	v := New().Password("password", "weak", password.Config{})
	// too short, no uppercase, no digit, no special
	if len(v.Errors()) != 4 {
		t.Fatalf("expected 4 violations, got %v", v.Errors())
	}
	if appErr := v.Validate(); appErr.Code != errors.ErrCodeWeakPassword {
		t.Errorf("expected WEAK_PASSWORD, got %s", appErr.Code)
	}
}

func TestValidatorCustom(t *testing.T) {
	if New().Custom(true, "x", "bad").HasErrors() {
		t.Error("expected no error for true condition")
	}
	if !New().Custom(false, "x", "bad").HasErrors() {
		t.Error("expected error for false condition")
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Validate() != nil {
		t.Error("expected nil for no errors")
	}

	v := New().MaxLength("nome", strings.Repeat("a", 5), 3).MaxLength("rua", strings.Repeat("b", 5), 3)
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeTooLong {
		t.Errorf("expected shared code TOO_LONG, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "nome") || !strings.Contains(appErr.Message, "rua") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected 2 field errors in details, got %v", appErr.Details["fields"])
	}

	mixed := New().Required("nome", "").MaxLength("rua", "abcd", 3).Validate()
	if mixed.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT for mixed codes, got %s", mixed.Code)
	}
	if !errors.IsValidation(mixed) {
		t.Error("expected validation category")
	}
}

func TestValidatorAddAppError(t *testing.T) {
	v := New()
	v.AddAppError("a", errors.RepeatedDigits())
	v.AddAppError("b", fmt.Errorf("plain"))
	got := v.Errors()
	if got[0].Code != errors.ErrCodeRepeatedDigits {
		t.Errorf("expected code carried over, got %s", got[0].Code)
	}
	if got[1].Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT for plain error, got %s", got[1].Code)
	}
}

func TestRequiredFunc(t *testing.T) {
	if err := Required("email", "a@b.c"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Required("email", ""); !errors.HasCode(err, errors.ErrCodeMissingField) {
		t.Errorf("expected MISSING_FIELD, got %v", err)
	}
}

type registerRequest struct {
	Nome       string `json:"nome" validate:"required,max=10"`
	CPF        string `json:"cpf" validate:"required,cpf"`
	Email      string `json:"email" validate:"omitempty,email"`
	Password   string `json:"password" validate:"required,password"`
	TipoAcesso string `json:"tipo_acesso" validate:"omitempty,oneof=admin user"`
	Estado     string `validate:"omitempty,len=2"`
}

func TestStructValidateValid(t *testing.T) {
	req := registerRequest{Nome: "Ana", CPF: "529.982.247-25", Email: "ana@example.com", Password: "Str0ng!Pass", TipoAcesso: "admin", Estado: "SP"}
	if err := Validate(req); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	req := registerRequest{Nome: "", CPF: "111.111.111-11", Email: "nope", Password: "weak", Estado: "SPX"}
	err := Validate(req)
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	fields := appErr.Details["fields"].([]FieldError)
	byField := make(map[string]FieldError, len(fields))
	for _, f := range fields {
		byField[f.Field] = f
	}

	want := map[string]errors.ErrorCode{
		"nome":     errors.ErrCodeMissingField,
		"cpf":      errors.ErrCodeRepeatedDigits,
		"email":    errors.ErrCodeInvalidInput,
		"password": errors.ErrCodeWeakPassword,
		"estado":   errors.ErrCodeInvalidInput,
	}
	for field, code := range want {
		got, ok := byField[field]
		if !ok {
			t.Errorf("expected an error for %s, got %v", field, fields)
			continue
		}
		if got.Code != code {
			t.Errorf("%s: expected %s, got %s", field, code, got.Code)
		}
	}
}

func TestStructValidateMax(t *testing.T) {
	req := registerRequest{Nome: "Maria Aparecida", CPF: "529.982.247-25", Password: "Str0ng!Pass"}
	err := Validate(req)
	if !errors.HasCode(err, errors.ErrCodeTooLong) {
		t.Fatalf("expected TOO_LONG, got %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{"TipoAcesso": "tipo_acesso", "Estado": "estado", "nome": "nome"}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
