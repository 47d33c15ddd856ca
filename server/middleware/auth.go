package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/credkit/auth"
	"github.com/kbukum/credkit/auth/authctx"
	"github.com/kbukum/credkit/auth/password"
	"github.com/kbukum/credkit/errors"
	"github.com/kbukum/credkit/logger"
	"github.com/kbukum/credkit/observability"
)

// ClaimsKey is the gin context key holding the validated claims.
const ClaimsKey = "claims"

type authOptions struct {
	skipPaths []string
	log       *logger.Logger
}

// AuthOption configures the Auth middleware.
type AuthOption func(*authOptions)

// WithSkipPaths lets requests whose path starts with one of prefixes through
// without a token.
func WithSkipPaths(prefixes ...string) AuthOption {
	return func(o *authOptions) { o.skipPaths = append(o.skipPaths, prefixes...) }
}

// WithLogger sets the logger (default: the "auth" component logger).
func WithLogger(l *logger.Logger) AuthOption {
	return func(o *authOptions) { o.log = l }
}

// Auth returns a Gin middleware that requires an "Authorization: Bearer
// <token>" header and validates the token with validator. Validated claims
// are stored in the request context (see authctx) and under ClaimsKey in
// the Gin context. Every rejection answers 401 with the same body; the
// rejection kind is only logged.
func Auth(validator auth.TokenValidator, opts ...AuthOption) gin.HandlerFunc {
	o := &authOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get(logger.ComponentAuth)
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range o.skipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanValidateToken)

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			err := errors.Unauthorized("Authorization header required")
			observability.SetSpanError(ctx, string(err.Code), err)
			span.End()
			o.log.WithContext(ctx).Debug("missing bearer token", logger.Fields("path", path))
			reject(c, err)
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			appErr, ok := errors.AsAppError(err)
			if !ok {
				appErr = errors.Unauthorized("").WithCause(err)
			}
			kind := string(appErr.Code)
			observability.SetSpanError(ctx, kind, err)
			span.End()
			o.log.WithContext(ctx).Warn("token rejected", logger.Fields(
				logger.FieldKind, kind,
				logger.FieldFingerprint, password.Fingerprint(token),
				"path", path,
			))
			reject(c, appErr)
			return
		}

		ctx = authctx.Set(ctx, claims)
		if id, ok := authctx.UserID(ctx); ok {
			observability.SetSpanAttribute(ctx, observability.AttrUserID, id)
			ctx = logger.ContextWithUserID(ctx, id)
		}
		span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func reject(c *gin.Context, err *errors.AppError) {
	c.AbortWithStatusJSON(err.PublicStatus(), err.ToResponse())
}
