package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/credkit/auth/password"
	"github.com/kbukum/credkit/cpf"
	"github.com/kbukum/credkit/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string           `json:"field"`
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds an INVALID_INPUT field error.
func (v *Validator) AddError(field, message string) {
	v.AddCodedError(field, errors.ErrCodeInvalidInput, message)
}

// AddCodedError adds a field error with a specific code.
func (v *Validator) AddCodedError(field string, code errors.ErrorCode, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Code:    code,
		Message: message,
	})
}

// AddAppError records err against field, keeping its code and message.
// Errors that are not AppErrors are recorded as INVALID_INPUT.
func (v *Validator) AddAppError(field string, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		v.AddCodedError(field, appErr.Code, appErr.Message)
		return
	}
	v.AddError(field, err.Error())
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an AppError if there are validation errors, nil otherwise.
// The error carries the shared code when every field error has the same
// code, INVALID_INPUT otherwise.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}

	code := v.errors[0].Code
	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
		if e.Code != code {
			code = errors.ErrCodeInvalidInput
		}
	}

	return errors.Validation(code, strings.Join(messages, "; ")).
		WithDetail("fields", v.errors)
}

// Required checks if a string is non-empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddCodedError(field, errors.ErrCodeMissingField, "is required")
	}
	return v
}

// MaxLength checks that a string has at most maxLen characters.
func (v *Validator) MaxLength(field, value string, maxLen int) *Validator {
	if n := utf8.RuneCountInString(value); n > maxLen {
		v.AddCodedError(field, errors.ErrCodeTooLong, fmt.Sprintf("must be %d characters or less (got %d)", maxLen, n))
	}
	return v
}

// MinLength checks that a string has at least minLen characters.
func (v *Validator) MinLength(field, value string, minLen int) *Validator {
	if utf8.RuneCountInString(value) < minLen {
		v.AddError(field, fmt.Sprintf("must be at least %d characters", minLen))
	}
	return v
}

// Pattern checks if a string matches a regex pattern.
func (v *Validator) Pattern(field, value, pattern string) *Validator {
	if value == "" {
		return v
	}
	matched, err := regexp.MatchString(pattern, value)
	if err != nil || !matched {
		v.AddError(field, "does not match required format")
	}
	return v
}

// OneOf checks if a value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// CPF checks that value is a valid CPF, recording the parse error kind.
func (v *Validator) CPF(field, value string) *Validator {
	if _, err := cpf.Parse(value); err != nil {
		v.AddAppError(field, err)
	}
	return v
}

// Password checks value against the strength policy in cfg, recording one
// WEAK_PASSWORD error per violated rule.
func (v *Validator) Password(field, value string, cfg password.Config) *Validator {
	for _, msg := range password.ValidateStrength(value, cfg).Messages() {
		v.AddCodedError(field, errors.ErrCodeWeakPassword, msg)
	}
	return v
}

// Custom applies a custom validation condition.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}

// Required validates a single required field and returns an error if empty.
func Required(field, value string) error {
	v := New().Required(field, value)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
