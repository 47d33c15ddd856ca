package jwt

import (
	"errors"
	"fmt"
	"time"
)

// DefaultAccessTokenTTL is the lifetime of access tokens when none is configured.
const DefaultAccessTokenTTL = time.Hour

// MinSecretLength is the recommended minimum HMAC secret length in bytes.
const MinSecretLength = 32

// Config configures the token service.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// Secret is the HMAC-SHA256 signing key.
	Secret string `mapstructure:"secret"`

	// AccessTokenTTL is the lifetime of access tokens (default: 1h).
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`

	// Issuer is the "iss" claim. When set, tokens with another issuer are rejected.
	Issuer string `mapstructure:"issuer"`

	// Audience is the "aud" claim. When set, tokens must name its first entry.
	Audience []string `mapstructure:"audience"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = DefaultAccessTokenTTL
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("access_token_ttl must be positive (got: %s)", c.AccessTokenTTL)
	}
	return nil
}
