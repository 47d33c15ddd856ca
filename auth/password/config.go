package password

import (
	"fmt"
	"math"
)

// Algorithm identifies a password hashing algorithm found in a stored hash.
type Algorithm string

const (
	// AlgorithmArgon2id is the target algorithm for every new hash.
	AlgorithmArgon2id Algorithm = "argon2id"

	// AlgorithmBcrypt is accepted for verification of legacy hashes only.
	AlgorithmBcrypt Algorithm = "bcrypt"
)

// DefaultSpecialCharacters is the set a password must draw at least one character from.
const DefaultSpecialCharacters = "@$!%*?&"

// Config configures password hashing and the strength policy.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// Argon2Time is the number of iterations (default: 2).
	Argon2Time uint32 `mapstructure:"argon2_time"`

	// Argon2Memory is the memory usage in KiB (default: 65536 = 64MB).
	Argon2Memory uint32 `mapstructure:"argon2_memory"`

	// Argon2Threads is the parallelism (default: 1).
	Argon2Threads uint8 `mapstructure:"argon2_threads"`

	// KeyLength is the derived key length in bytes (default: 32).
	KeyLength uint32 `mapstructure:"key_length"`

	// SaltLength is the random salt length in bytes (default: 16).
	SaltLength uint32 `mapstructure:"salt_length"`

	// MaxArgon2Memory caps the memory a stored hash may ask for, in KiB
	// (default: 4 * Argon2Memory). Stored hashes above it are rejected.
	MaxArgon2Memory uint32 `mapstructure:"max_argon2_memory"`

	// MaxArgon2Time caps the iterations a stored hash may ask for
	// (default: 4 * Argon2Time).
	MaxArgon2Time uint32 `mapstructure:"max_argon2_time"`

	// MinLength is the minimum password length in characters (default: 8).
	MinLength int `mapstructure:"min_length"`

	// SpecialCharacters lists the characters that satisfy the special character rule.
	SpecialCharacters string `mapstructure:"special_characters"`
}

// DefaultConfig returns the target parameters with defaults applied.
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Argon2Time == 0 {
		c.Argon2Time = 2
	}
	if c.Argon2Memory == 0 {
		c.Argon2Memory = 64 * 1024
	}
	if c.Argon2Threads == 0 {
		c.Argon2Threads = 1
	}
	if c.KeyLength == 0 {
		c.KeyLength = 32
	}
	if c.SaltLength == 0 {
		c.SaltLength = 16
	}
	if c.MaxArgon2Memory == 0 {
		c.MaxArgon2Memory = ceiling(c.Argon2Memory)
	}
	if c.MaxArgon2Time == 0 {
		c.MaxArgon2Time = ceiling(c.Argon2Time)
	}
	if c.MinLength == 0 {
		c.MinLength = 8
	}
	if c.SpecialCharacters == "" {
		c.SpecialCharacters = DefaultSpecialCharacters
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Argon2Time < 1 {
		return fmt.Errorf("argon2_time must be >= 1 (got: %d)", c.Argon2Time)
	}
	if c.Argon2Memory < 8*uint32(c.Argon2Threads) {
		return fmt.Errorf("argon2_memory must be >= 8*argon2_threads KiB (got: %d)", c.Argon2Memory)
	}
	if c.Argon2Threads < 1 {
		return fmt.Errorf("argon2_threads must be >= 1 (got: %d)", c.Argon2Threads)
	}
	if c.KeyLength < 16 {
		return fmt.Errorf("key_length must be >= 16 (got: %d)", c.KeyLength)
	}
	if c.SaltLength < 8 {
		return fmt.Errorf("salt_length must be >= 8 (got: %d)", c.SaltLength)
	}
	if c.MaxArgon2Memory < c.Argon2Memory {
		return fmt.Errorf("max_argon2_memory must be >= argon2_memory (got: %d)", c.MaxArgon2Memory)
	}
	if c.MaxArgon2Time < c.Argon2Time {
		return fmt.Errorf("max_argon2_time must be >= argon2_time (got: %d)", c.MaxArgon2Time)
	}
	if c.MinLength < 1 {
		return fmt.Errorf("min_length must be >= 1 (got: %d)", c.MinLength)
	}
	return nil
}

// ceiling returns four times target, saturating at the uint32 maximum.
func ceiling(target uint32) uint32 {
	return uint32(min(4*uint64(target), math.MaxUint32))
}
