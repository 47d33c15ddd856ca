package jwt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/credkit/errors"
	"github.com/kbukum/credkit/logger"
	"github.com/kbukum/credkit/observability"
)

// Service issues and validates HS256 tokens carrying Claims.
// It is safe for concurrent use.
type Service struct {
	cfg     Config
	key     []byte
	now     func() time.Time
	parser  *gojwt.Parser
	log     *logger.Logger
	metrics *observability.CredentialMetrics
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source (default: time.Now).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger (default: the "jwt" component logger).
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithMetrics records issued tokens and validation outcomes.
func WithMetrics(m *observability.CredentialMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a token service.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}

	s := &Service{cfg: cfg, key: []byte(cfg.Secret), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get(logger.ComponentJWT)
	}
	if len(s.key) < MinSecretLength {
		s.log.Warn("signing secret is shorter than recommended", logger.Fields("min_length", MinSecretLength))
	}
	s.parser = gojwt.NewParser(s.parserOptions()...)
	return s, nil
}

// Issue signs claims with a lifetime of ttl. iat is the current time
// truncated to the second and exp is now+ttl rounded up to the next whole
// second. A fresh jti is assigned on every call.
func (s *Service) Issue(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.InvalidTTL(ttl)
	}

	now := s.now()
	exp := now.Add(ttl)
	if t := exp.Truncate(time.Second); !t.Equal(exp) {
		exp = t.Add(time.Second)
	}

	claims.IssuedAt = gojwt.NewNumericDate(now.Truncate(time.Second))
	claims.ExpiresAt = gojwt.NewNumericDate(exp)
	claims.ID = uuid.NewString()
	if claims.Issuer == "" {
		claims.Issuer = s.cfg.Issuer
	}
	if len(claims.Audience) == 0 && len(s.cfg.Audience) > 0 {
		claims.Audience = gojwt.ClaimStrings(s.cfg.Audience)
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, &claims).SignedString(s.key)
	if err != nil {
		return "", errors.Internal(fmt.Errorf("jwt: sign token: %w", err))
	}
	s.metrics.RecordTokenIssued(context.Background())
	return signed, nil
}

// IssueAccess signs claims with the configured access token lifetime.
func (s *Service) IssueAccess(claims Claims) (string, error) {
	return s.Issue(claims, s.cfg.AccessTokenTTL)
}

// Validate checks, in order, the token structure, the signature over the
// header and claims segments, and the claims themselves. The claims are
// only decoded once the signature has verified, so any change to the
// claims segment is reported as BAD_SIGNATURE. Rejections are counted but
// not logged; callers log them with their request context.
func (s *Service) Validate(token string) (*Claims, error) {
	claims, err := s.validate(token)
	if err != nil {
		s.metrics.RecordTokenValidation(context.Background(), string(errors.CodeOf(err)))
		return nil, err
	}
	s.metrics.RecordTokenValidation(context.Background(), "valid")
	return claims, nil
}

func (s *Service) validate(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errors.TokenMalformed(fmt.Errorf("expected 3 segments, got %d", len(parts)))
	}
	if err := checkHeader(parts[0]); err != nil {
		return nil, errors.TokenMalformed(err)
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, errors.TokenMalformed(fmt.Errorf("decode signature: %w", err))
	}

	if err := gojwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, s.key); err != nil {
		return nil, errors.BadSignature(err)
	}

	claims := &Claims{}
	if _, err := s.parser.ParseWithClaims(token, claims, s.keyFunc); err != nil {
		if stderrors.Is(err, gojwt.ErrTokenExpired) {
			return nil, errors.TokenExpired()
		}
		return nil, errors.TokenMalformed(err)
	}
	return claims, nil
}

func checkHeader(segment string) error {
	raw, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return fmt.Errorf("decode header: %w", err)
	}
	var header struct {
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return fmt.Errorf("parse header: %w", err)
	}
	if header.Alg != gojwt.SigningMethodHS256.Alg() {
		return fmt.Errorf("unexpected signing method: %q", header.Alg)
	}
	return nil
}

// ValidatorFunc returns a function that validates a token string and returns
// the *Claims as any. This bridges the service with middleware that depends
// on auth.TokenValidator:
//
//	router.Use(middleware.Auth(auth.NewValidator(svc.ValidatorFunc())))
func (s *Service) ValidatorFunc() func(string) (any, error) {
	return func(token string) (any, error) {
		claims, err := s.Validate(token)
		if err != nil {
			return nil, err
		}
		return claims, nil
	}
}

// keyFunc is the jwt.Keyfunc used during token parsing.
func (s *Service) keyFunc(token *gojwt.Token) (any, error) {
	if token.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return s.key, nil
}

// parserOptions returns jwt.ParserOption based on config.
func (s *Service) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(s.now),
		gojwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if len(s.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience[0]))
	}
	return opts
}
