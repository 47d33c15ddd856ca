// Package middleware provides Gin middleware for authenticated routes.
//
//	router := gin.New()
//	router.Use(middleware.RequestID())
//	router.Use(middleware.Auth(validator, middleware.WithSkipPaths("/api/login", "/api/register")))
//
//	router.GET("/api/me", func(c *gin.Context) {
//	    claims := authctx.MustGet[*jwt.Claims](c.Request.Context())
//	    ...
//	})
package middleware
