package identity

import (
	"fmt"

	"github.com/kbukum/credkit/auth"
	"github.com/kbukum/credkit/auth/jwt"
	"github.com/kbukum/credkit/config"
	"github.com/kbukum/credkit/observability"
	"github.com/kbukum/credkit/sanitize"
)

// Config is the complete configuration of an identity service.
//
//	name: cuidar-api
//	environment: production
//	auth:
//	  jwt:
//	    secret: ${AUTH_JWT_SECRET}
//	    access_token_ttl: 1h
//	  password:
//	    argon2_memory: 65536
//	limits:
//	  nome: 120
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`

	// Limits overrides sanitize.DefaultUserLimits per field.
	Limits sanitize.Limits `yaml:"limits" mapstructure:"limits"`
}

// LegacySecretEnv also sets auth.jwt.secret, for deployments that still
// export the signing key under its old name.
const LegacySecretEnv = "JWT_SECRET_KEY"

// LoadConfig loads the configuration of serviceName from config.yml, .env
// and the environment, then applies defaults and validates it.
// Environment variables override the file, e.g. AUTH_JWT_SECRET.
func LoadConfig(serviceName string, opts ...config.LoaderOption) (*Config, error) {
	cfg := &Config{}
	opts = append([]config.LoaderOption{config.WithEnvAlias(LegacySecretEnv, "auth.jwt.secret")}, opts...)
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults sets defaults for every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Limits = sanitize.DefaultUserLimits.Merge(c.Limits)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("config.%w", err)
	}
	if c.IsProduction() && len(c.Auth.JWT.Secret) < jwt.MinSecretLength {
		return fmt.Errorf("config.auth.jwt.secret must be at least %d bytes in production", jwt.MinSecretLength)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	for field, n := range c.Limits {
		if n < 0 {
			return fmt.Errorf("config.limits.%s must not be negative (got: %d)", field, n)
		}
	}
	return nil
}
