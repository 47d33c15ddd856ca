// Package errors provides the error taxonomy shared by every credkit package.
//
// Every failure is an *AppError carrying a machine-readable ErrorCode. Codes
// fall into categories:
//
//   - validation: TOO_LONG, WRONG_LENGTH, REPEATED_DIGITS, INVALID_CHECKSUM,
//     EMPTY_PASSWORD, WEAK_PASSWORD, INVALID_TTL
//   - hashing: HASH_MALFORMED
//   - token: TOKEN_MALFORMED, BAD_SIGNATURE, TOKEN_EXPIRED
//
// Callers branch with HasCode, IsValidation, IsHashing and IsToken, or with
// the standard library:
//
//	if errors.Is(err, credkiterrors.TokenExpired()) { ... }
//
// ToResponse hides the kind from clients; the code stays available for logs.
package errors
