package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code, so that
// errors.Is(err, errors.TokenExpired()) works without sentinel values.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Category returns the category of the error code.
func (e *AppError) Category() Category { return CategoryOf(e.Code) }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// --- Validation constructors ---

// Validation creates a validation error with the given code.
func Validation(code ErrorCode, message string) *AppError {
	return New(code, message, http.StatusBadRequest)
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return Validation(ErrCodeMissingField, fmt.Sprintf("Missing required field: %s", field)).
		WithDetail("field", field)
}

// TooLong creates an error for a sanitized value longer than maxLength.
func TooLong(maxLength, length int) *AppError {
	return Validation(ErrCodeTooLong, fmt.Sprintf("Field exceeds the maximum length of %d characters", maxLength)).
		WithDetails(map[string]any{"max_length": maxLength, "length": length})
}

// WrongLength creates an error for a document number without exactly 11 digits.
func WrongLength(digits int) *AppError {
	return Validation(ErrCodeWrongLength, "CPF must contain exactly 11 digits").
		WithDetail("digits", digits)
}

// RepeatedDigits creates an error for a document number made of a single repeated digit.
func RepeatedDigits() *AppError {
	return Validation(ErrCodeRepeatedDigits, "CPF cannot be a sequence of repeated digits")
}

// InvalidChecksum creates an error for a document number whose check digits do not match.
func InvalidChecksum() *AppError {
	return Validation(ErrCodeInvalidChecksum, "CPF check digits are invalid")
}

// EmptyPassword creates an error for an empty password.
func EmptyPassword() *AppError {
	return Validation(ErrCodeEmptyPassword, "Password cannot be empty")
}

// WeakPassword creates an error for a password that fails the strength policy.
func WeakPassword(violations []string) *AppError {
	return Validation(ErrCodeWeakPassword, "Password does not meet the strength requirements").
		WithDetail("violations", violations)
}

// InvalidTTL creates an error for a non-positive token lifetime.
func InvalidTTL(ttl time.Duration) *AppError {
	return Validation(ErrCodeInvalidTTL, "Token lifetime must be positive").
		WithDetail("ttl", ttl.String())
}

// --- Hashing constructors ---

// HashMalformed creates an error for a stored hash that cannot be parsed.
func HashMalformed(reason string) *AppError {
	return New(ErrCodeHashMalformed, fmt.Sprintf("Stored credential hash is invalid: %s", reason), http.StatusUnauthorized)
}

// --- Token constructors ---

// TokenMalformed creates an error for a token that cannot be parsed.
func TokenMalformed(cause error) *AppError {
	return New(ErrCodeTokenMalformed, "Authentication token is malformed.", http.StatusUnauthorized).WithCause(cause)
}

// BadSignature creates an error for a token whose signature does not verify.
func BadSignature(cause error) *AppError {
	return New(ErrCodeBadSignature, "Authentication token signature is invalid.", http.StatusUnauthorized).WithCause(cause)
}

// TokenExpired creates a new AppError for an expired authentication token.
func TokenExpired() *AppError {
	return New(ErrCodeTokenExpired, "Your session has expired. Please log in again.", http.StatusUnauthorized)
}

// --- Authentication constructors ---

// Unauthorized creates a new AppError for unauthorized access.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return New(ErrCodeUnauthorized, reason, http.StatusUnauthorized)
}

// InvalidCredentials creates an error for a password that does not match.
func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, "Invalid credentials.", http.StatusUnauthorized)
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// --- Inspection helpers ---

// CodeOf returns the code of the first AppError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// IsValidation reports whether err is a rejected-input error.
func IsValidation(err error) bool { return hasCategory(err, CategoryValidation) }

// IsHashing reports whether err is a corrupt or unsupported stored hash.
func IsHashing(err error) bool { return hasCategory(err, CategoryHashing) }

// IsToken reports whether err is a rejected token.
func IsToken(err error) bool { return hasCategory(err, CategoryToken) }

func hasCategory(err error, c Category) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Category() == c
}

// Wrap returns err as an AppError: AppErrors in the chain are returned as is,
// anything else becomes an internal error with err as the cause.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
