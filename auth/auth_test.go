package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	cfg.ApplyDefaults()

	if cfg.JWT.AccessTokenTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %s", cfg.JWT.AccessTokenTTL)
	}
	if cfg.Password.Argon2Memory != 65536 {
		t.Errorf("expected password defaults, got %+v", cfg.Password)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.Describe(); got != "JWT(HS256) TTL=1h0m0s password=argon2id(m=65536,t=2,p=1)" {
		t.Errorf("unexpected description %q", got)
	}
}

func TestConfig_MissingSecret(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	err := cfg.Validate()
	if err == nil || !strings.HasPrefix(err.Error(), "auth.jwt:") {
		t.Fatalf("expected auth.jwt error, got %v", err)
	}
}

func TestNewValidator(t *testing.T) {
	sentinel := errors.New("rejected")
	v := NewValidator(func(token string) (any, error) {
		if token == "good" {
			return 1, nil
		}
		return nil, sentinel
	})

	if got, err := v.ValidateToken("good"); err != nil || got != 1 {
		t.Errorf("ValidateToken(good) = %v, %v", got, err)
	}
	if _, err := v.ValidateToken("bad"); !errors.Is(err, sentinel) {
		t.Errorf("expected sentinel error, got %v", err)
	}
}
