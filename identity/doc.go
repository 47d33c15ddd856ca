// Package identity composes the credential components into the flows an
// API handler needs: registering a user, logging in and authenticating a
// bearer token.
//
// The service never persists anything. Register returns the sanitized
// fields, the canonical CPF and the password hash for the caller to store;
// Login takes the stored hash and returns a replacement whenever the stored
// one was produced with outdated parameters or the legacy bcrypt algorithm.
//
//	cfg, err := identity.LoadConfig("cuidar-api")
//	svc, shutdown, err := identity.Start(ctx, cfg)
//	defer shutdown(ctx)
//
//	router.Use(middleware.Auth(svc.Validator(), middleware.WithSkipPaths("/api/login")))
package identity
