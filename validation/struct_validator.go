package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/credkit/auth/password"
	"github.com/kbukum/credkit/cpf"
	"github.com/kbukum/credkit/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use json tag names for field names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return toSnakeCase(fld.Name)
			}
			return name
		})

		_ = validate.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
			return cpf.Valid(fl.Field().String())
		})
		_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return password.ValidateStrength(fl.Field().String(), password.Config{}).Valid
		})
	})
	return validate
}

// Validate validates a struct using struct tags.
// Uses tags like `validate:"required,cpf,max=100"`.
func Validate(s any) error {
	v := getValidator()
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.InvalidInput("", "validation failed").WithCause(err)
	}

	collector := New()
	for _, e := range validationErrors {
		code, message := formatValidationError(e)
		collector.AddCodedError(e.Field(), code, message)
	}
	return collector.Validate()
}

// formatValidationError maps a failed tag to an error code and a
// human-readable message.
func formatValidationError(e validator.FieldError) (errors.ErrorCode, string) {
	switch e.Tag() {
	case "required":
		return errors.ErrCodeMissingField, "is required"
	case "email":
		return errors.ErrCodeInvalidInput, "must be a valid email address"
	case "min":
		return errors.ErrCodeInvalidInput, "must be at least " + e.Param() + " characters"
	case "max":
		return errors.ErrCodeTooLong, "must be at most " + e.Param() + " characters"
	case "len":
		return errors.ErrCodeInvalidInput, "must be exactly " + e.Param() + " characters"
	case "oneof":
		return errors.ErrCodeInvalidInput, "must be one of: " + e.Param()
	case "cpf":
		return cpfError(e.Value())
	case "password":
		return errors.ErrCodeWeakPassword, "does not meet the strength requirements"
	default:
		return errors.ErrCodeInvalidInput, "is invalid"
	}
}

func cpfError(value any) (errors.ErrorCode, string) {
	s, _ := value.(string)
	_, err := cpf.Parse(s)
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Code, appErr.Message
	}
	return errors.ErrCodeInvalidInput, "must be a valid CPF"
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32) // lowercase
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
