package identity

import (
	"context"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/credkit/auth"
	"github.com/kbukum/credkit/auth/jwt"
	"github.com/kbukum/credkit/auth/password"
	"github.com/kbukum/credkit/cpf"
	"github.com/kbukum/credkit/errors"
	"github.com/kbukum/credkit/logger"
	"github.com/kbukum/credkit/observability"
	"github.com/kbukum/credkit/sanitize"
	"github.com/kbukum/credkit/validation"
)

// Form field names of the user record.
const (
	FieldName       = "nome"
	FieldEmail      = "email"
	FieldAccessType = "tipo_acesso"
)

const (
	opRegister     = "register"
	opLogin        = "login"
	opAuthenticate = "authenticate"
)

// Service runs the register, login and authenticate flows.
// It is safe for concurrent use.
type Service struct {
	cfg     Config
	hasher  *password.Hasher
	tokens  *jwt.Service
	log     *logger.Logger
	metrics *observability.CredentialMetrics
}

type options struct {
	log     *logger.Logger
	metrics *observability.CredentialMetrics
	clock   func() time.Time
	random  io.Reader
}

// Option configures a Service.
type Option func(*options)

// WithLogger sets the logger (default: the "identity" component logger).
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records credential metrics on m.
func WithMetrics(m *observability.CredentialMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock sets the time source of the token service.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithRandom sets the salt source of the hasher.
func WithRandom(r io.Reader) Option {
	return func(o *options) { o.random = r }
}

// New builds the hasher and token service described by cfg.
// cfg must have defaults applied.
func New(cfg Config, opts ...Option) (*Service, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get(logger.ComponentIdentity)
	}
	if cfg.Limits == nil {
		cfg.Limits = sanitize.DefaultUserLimits
	}

	hasherOpts := []password.Option{
		password.WithLogger(o.log.WithComponent(logger.ComponentPassword)),
		password.WithMetrics(o.metrics),
	}
	if o.random != nil {
		hasherOpts = append(hasherOpts, password.WithRandom(o.random))
	}
	hasher, err := password.NewHasher(cfg.Auth.Password, hasherOpts...)
	if err != nil {
		return nil, err
	}

	tokenOpts := []jwt.Option{
		jwt.WithLogger(o.log.WithComponent(logger.ComponentJWT)),
		jwt.WithMetrics(o.metrics),
	}
	if o.clock != nil {
		tokenOpts = append(tokenOpts, jwt.WithClock(o.clock))
	}
	tokens, err := jwt.NewService(cfg.Auth.JWT, tokenOpts...)
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:     cfg,
		hasher:  hasher,
		tokens:  tokens,
		log:     o.log,
		metrics: o.metrics,
	}, nil
}

// Start initializes logging and observability from cfg and returns a
// Service whose metrics go to the configured exporter. The ShutdownFunc
// flushes the exporters and is never nil.
func Start(ctx context.Context, cfg *Config, opts ...Option) (*Service, observability.ShutdownFunc, error) {
	logger.Init(cfg.Logging)
	logger.RegisterDefaults(logger.ComponentIdentity, logger.ComponentPassword,
		logger.ComponentJWT, logger.ComponentAuth, logger.ComponentSanitize)

	shutdown, err := observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	})
	if err != nil {
		return nil, shutdown, err
	}

	if cfg.Observability.Enabled {
		metrics, err := observability.NewCredentialMetrics(observability.Meter("identity"))
		if err != nil {
			return nil, shutdown, err
		}
		opts = append([]Option{WithMetrics(metrics)}, opts...)
	}

	svc, err := New(*cfg, opts...)
	if err != nil {
		return nil, shutdown, err
	}
	svc.log.Info("identity service started", logger.Fields(
		"environment", cfg.Environment,
		"auth", cfg.Auth.Describe(),
	))
	return svc, shutdown, nil
}

// Hasher returns the password hasher.
func (s *Service) Hasher() *password.Hasher { return s.hasher }

// Tokens returns the token service.
func (s *Service) Tokens() *jwt.Service { return s.tokens }

// Validator returns the token service as an auth.TokenValidator for
// middleware.Auth.
func (s *Service) Validator() auth.TokenValidator {
	return auth.NewValidator(s.tokens.ValidatorFunc())
}

// RegisterInput is a registration form as received from the client.
type RegisterInput struct {
	Name       string `json:"nome" validate:"required"`
	CPF        string `json:"cpf" validate:"required"`
	Email      string `json:"email"`
	Password   string `json:"senha" validate:"required"`
	AccessType string `json:"tipo_acesso"`

	// Profile holds further record fields (rua, cidade, telefone...),
	// sanitized against the configured limits.
	Profile map[string]string `json:"-"`
}

// Registration is what the caller persists for a new user.
type Registration struct {
	CPF          cpf.Number
	Fields       map[string]string
	PasswordHash string
}

// Register sanitizes the form, parses the CPF, checks the password
// strength and hashes the password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (reg *Registration, err error) {
	ctx, done := s.begin(ctx, observability.SpanRegister, opRegister)
	defer func() { done(err) }()

	if err := validation.Validate(in); err != nil {
		return nil, s.reject(ctx, logger.ComponentIdentity, err)
	}

	raw := make(map[string]string, len(in.Profile)+3)
	for k, v := range in.Profile {
		raw[k] = v
	}
	raw[FieldName] = in.Name
	raw[FieldEmail] = in.Email
	raw[FieldAccessType] = in.AccessType

	fields, err := sanitize.Record(raw, s.cfg.Limits)
	if err != nil {
		return nil, s.reject(ctx, logger.ComponentSanitize, err)
	}
	if fields[FieldName] == "" {
		return nil, s.reject(ctx, logger.ComponentSanitize, errors.MissingField(FieldName))
	}

	number, err := cpf.Parse(in.CPF)
	if err != nil {
		return nil, s.reject(ctx, "cpf", err)
	}

	if strength := s.hasher.ValidateStrength(in.Password); !strength.Valid {
		return nil, s.reject(ctx, logger.ComponentPassword, errors.WeakPassword(strength.Messages()))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("user registered", logger.Fields("fields", len(fields)))
	return &Registration{CPF: number, Fields: fields, PasswordHash: hash}, nil
}

// LoginInput carries the submitted credentials and the stored user record.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"senha" validate:"required"`

	StoredHash string  `json:"-"`
	UserID     int64   `json:"-"`
	AccessType *string `json:"-"`
}

// LoginResult is a successful login. NewHash is set when the stored hash
// must be replaced.
type LoginResult struct {
	Token   string
	NewHash string
}

// Login verifies the password against the stored hash and issues an
// access token. A wrong password is INVALID_CREDENTIALS.
func (s *Service) Login(ctx context.Context, in LoginInput) (res *LoginResult, err error) {
	ctx, done := s.begin(ctx, observability.SpanLogin, opLogin)
	defer func() { done(err) }()

	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Validate(in); err != nil {
		return nil, s.reject(ctx, logger.ComponentIdentity, err)
	}
	email, err := sanitize.Sanitize(in.Email, s.cfg.Limits.For(FieldEmail))
	if err != nil {
		return nil, s.reject(ctx, logger.ComponentSanitize, err)
	}

	ok, err := s.hasher.Verify(in.StoredHash, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.reject(ctx, logger.ComponentPassword, errors.InvalidCredentials())
	}

	res = &LoginResult{NewHash: s.upgrade(ctx, in.StoredHash, in.Password)}

	observability.SetSpanAttribute(ctx, observability.AttrUserID, in.UserID)
	res.Token, err = s.tokens.IssueAccess(jwt.Claims{
		UserID:     in.UserID,
		AccessType: in.AccessType,
		Extra:      map[string]any{FieldEmail: email},
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(logger.ContextWithUserID(ctx, in.UserID)).Info("login succeeded",
		logger.Fields("upgraded", res.NewHash != ""))
	return res, nil
}

// upgrade returns a replacement for stored when it uses outdated
// parameters, or "" when it is current. Failures are logged and never
// fail the login.
func (s *Service) upgrade(ctx context.Context, stored, plain string) string {
	needs, err := s.hasher.NeedsRehash(stored)
	if err != nil {
		s.log.WithContext(ctx).Warn("rehash check failed", logger.ErrorFields("needs_rehash", err))
		return ""
	}
	if !needs {
		return ""
	}
	newHash, err := s.hasher.Hash(plain)
	if err != nil {
		s.log.WithContext(ctx).Warn("rehash failed", logger.ErrorFields("rehash", err))
		return ""
	}
	return newHash
}

// Authenticate validates a bearer token and returns its claims.
func (s *Service) Authenticate(ctx context.Context, token string) (claims *jwt.Claims, err error) {
	ctx, done := s.begin(ctx, observability.SpanValidateToken, opAuthenticate)
	defer func() { done(err) }()

	claims, err = s.tokens.Validate(token)
	if err != nil {
		s.log.WithContext(ctx).Debug("token rejected", logger.Fields(
			logger.FieldKind, string(errors.CodeOf(err)),
			logger.FieldFingerprint, password.Fingerprint(token),
		))
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrUserID, claims.UserID)
	return claims, nil
}

// begin starts a span for op and returns a func that ends it and records
// the outcome.
func (s *Service) begin(ctx context.Context, spanName, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, spanName,
		trace.WithAttributes(attribute.String(observability.AttrOperation, op)))
	return ctx, func(err error) {
		result := "ok"
		if err != nil {
			result = string(errors.Wrap(err).Code)
			observability.SetSpanError(ctx, result, err)
		}
		s.metrics.RecordOperation(ctx, op, result, time.Since(start))
		span.End()
	}
}

func (s *Service) reject(ctx context.Context, component string, err error) error {
	kind := string(errors.CodeOf(err))
	s.metrics.RecordRejection(ctx, component, kind)
	s.log.WithContext(ctx).Debug("input rejected", logger.Fields(
		logger.FieldComponent, component,
		logger.FieldKind, kind,
	))
	return err
}
