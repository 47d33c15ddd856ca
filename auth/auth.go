package auth

// TokenValidator validates a token string and returns the parsed claims.
// Middleware depends on this interface rather than on the token service.
//
// The returned value is stored in request context via authctx.Set and
// retrieved with authctx.Get[T].
type TokenValidator interface {
	ValidateToken(token string) (any, error)
}

// TokenValidatorFunc adapts an ordinary function to the TokenValidator interface.
type TokenValidatorFunc func(token string) (any, error)

// ValidateToken implements TokenValidator.
func (f TokenValidatorFunc) ValidateToken(token string) (any, error) {
	return f(token)
}

// NewValidator creates a TokenValidator from a validation function,
// typically jwt.Service.ValidatorFunc:
//
//	validator := auth.NewValidator(jwtSvc.ValidatorFunc())
func NewValidator(fn func(string) (any, error)) TokenValidator {
	return TokenValidatorFunc(fn)
}
