// Package jwt issues and validates HS256 bearer tokens.
//
// A token carries Claims: the user ID, an optional access type, the issue
// and expiry times, a unique jti and any extra keys. Validation rejects
// tokens with one of three kinds:
//
//   - TOKEN_MALFORMED: not three segments, undecodable, wrong algorithm,
//     missing exp or user_id, or wrong issuer/audience when configured
//   - BAD_SIGNATURE: the HMAC over header and claims does not match
//   - TOKEN_EXPIRED: exp is at or before the current time
//
// Usage:
//
//	svc, err := jwt.NewService(jwt.Config{Secret: secret})
//	token, err := svc.IssueAccess(jwt.Claims{UserID: 42, AccessType: jwt.StringPtr("admin")})
//	claims, err := svc.Validate(token)
package jwt
