package auth

import (
	"fmt"

	"github.com/kbukum/credkit/auth/jwt"
	"github.com/kbukum/credkit/auth/password"
)

// Config holds all authentication configuration.
// It composes subpackage configs for loading from YAML/env via mapstructure.
type Config struct {
	// JWT configures the token service.
	JWT jwt.Config `mapstructure:"jwt"`

	// Password configures password hashing and the strength policy.
	Password password.Config `mapstructure:"password"`
}

// ApplyDefaults sets sensible defaults for the sub-configurations.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
}

// Validate checks the sub-configurations.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	return nil
}

// Describe returns a human-readable one-liner for the startup log.
// Example: "JWT(HS256) TTL=1h0m0s password=argon2id(m=65536,t=2,p=1)"
func (c *Config) Describe() string {
	return fmt.Sprintf("JWT(HS256) TTL=%s password=%s(m=%d,t=%d,p=%d)",
		c.JWT.AccessTokenTTL, password.AlgorithmArgon2id,
		c.Password.Argon2Memory, c.Password.Argon2Time, c.Password.Argon2Threads)
}
