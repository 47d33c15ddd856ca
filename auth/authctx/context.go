// Package authctx carries validated token claims through a request context.
//
// The middleware stores whatever the TokenValidator returned; handlers read
// it back with the concrete type:
//
//	ctx = authctx.Set(ctx, claims)
//
//	claims, ok := authctx.Get[*jwt.Claims](ctx)
//	userID, ok := authctx.UserID(ctx)
package authctx

import (
	"context"
	"errors"
)

type claimsKey struct{}

// ErrNoClaims is returned when the context carries no claims of the requested type.
var ErrNoClaims = errors.New("authctx: no claims in context")

// Identified is implemented by claims that name the authenticated user.
type Identified interface {
	SubjectID() int64
}

// Set returns a copy of ctx carrying claims.
func Set(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// Get returns the claims stored in ctx if they have type T.
func Get[T any](ctx context.Context) (T, bool) {
	claims, ok := ctx.Value(claimsKey{}).(T)
	return claims, ok
}

// GetOrError is Get with ErrNoClaims in place of the boolean.
func GetOrError[T any](ctx context.Context) (T, error) {
	claims, ok := Get[T](ctx)
	if !ok {
		return claims, ErrNoClaims
	}
	return claims, nil
}

// MustGet is Get for handlers mounted behind the auth middleware.
// It panics when the claims are missing or of another type.
func MustGet[T any](ctx context.Context) T {
	claims, ok := Get[T](ctx)
	if !ok {
		panic("authctx: claims not found in context or wrong type")
	}
	return claims
}

// UserID returns the authenticated user's ID when the stored claims
// implement Identified.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := Get[Identified](ctx)
	if !ok {
		return 0, false
	}
	return id.SubjectID(), true
}
