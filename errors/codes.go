package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Category groups error codes into the three rejection families callers
// branch on: bad input, corrupt stored credential, rejected token.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryHashing    Category = "hashing"
	CategoryToken      Category = "token"
	CategoryAuth       Category = "auth"
	CategoryInternal   Category = "internal"
)

// Validation errors (caller input rejected)
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeTooLong indicates a sanitized field exceeds its maximum length.
	ErrCodeTooLong ErrorCode = "TOO_LONG"
	// ErrCodeWrongLength indicates a document number does not have 11 digits.
	ErrCodeWrongLength ErrorCode = "WRONG_LENGTH"
	// ErrCodeRepeatedDigits indicates a document number made of one repeated digit.
	ErrCodeRepeatedDigits ErrorCode = "REPEATED_DIGITS"
	// ErrCodeInvalidChecksum indicates a document number whose check digits do not match.
	ErrCodeInvalidChecksum ErrorCode = "INVALID_CHECKSUM"
	// ErrCodeEmptyPassword indicates an empty password was submitted for hashing.
	ErrCodeEmptyPassword ErrorCode = "EMPTY_PASSWORD"
	// ErrCodeWeakPassword indicates a password failed the strength policy.
	ErrCodeWeakPassword ErrorCode = "WEAK_PASSWORD"
	// ErrCodeInvalidTTL indicates a token lifetime that is zero or negative.
	ErrCodeInvalidTTL ErrorCode = "INVALID_TTL"
)

// Hashing errors (stored credential unusable)
const (
	// ErrCodeHashMalformed indicates a stored credential hash is corrupt or
	// uses an unsupported encoding.
	ErrCodeHashMalformed ErrorCode = "HASH_MALFORMED"
)

// Token errors
const (
	// ErrCodeTokenMalformed indicates the token could not be parsed.
	ErrCodeTokenMalformed ErrorCode = "TOKEN_MALFORMED"
	// ErrCodeBadSignature indicates the token MAC does not match its contents.
	ErrCodeBadSignature ErrorCode = "BAD_SIGNATURE"
	// ErrCodeTokenExpired indicates the authentication token has expired.
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
)

// Authentication errors
const (
	// ErrCodeUnauthorized indicates the request is unauthorized.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInvalidCredentials indicates a password did not match the stored hash.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error (e.g. the entropy source failed).
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var categories = map[ErrorCode]Category{
	ErrCodeInvalidInput:       CategoryValidation,
	ErrCodeMissingField:       CategoryValidation,
	ErrCodeTooLong:            CategoryValidation,
	ErrCodeWrongLength:        CategoryValidation,
	ErrCodeRepeatedDigits:     CategoryValidation,
	ErrCodeInvalidChecksum:    CategoryValidation,
	ErrCodeEmptyPassword:      CategoryValidation,
	ErrCodeWeakPassword:       CategoryValidation,
	ErrCodeInvalidTTL:         CategoryValidation,
	ErrCodeHashMalformed:      CategoryHashing,
	ErrCodeTokenMalformed:     CategoryToken,
	ErrCodeBadSignature:       CategoryToken,
	ErrCodeTokenExpired:       CategoryToken,
	ErrCodeUnauthorized:       CategoryAuth,
	ErrCodeInvalidCredentials: CategoryAuth,
	ErrCodeInternal:           CategoryInternal,
}

// CategoryOf returns the category a code belongs to.
// Unknown codes are reported as internal.
func CategoryOf(code ErrorCode) Category {
	if c, ok := categories[code]; ok {
		return c
	}
	return CategoryInternal
}
