package jwt

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/credkit/errors"
	"github.com/kbukum/credkit/logger"
	"github.com/kbukum/credkit/observability"
	"github.com/kbukum/credkit/observability/obstest"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T, cfg Config, opts ...Option) (*Service, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	if cfg.Secret == "" {
		cfg.Secret = testSecret
	}
	opts = append([]Option{WithClock(clock.Now), WithLogger(logger.NewNop())}, opts...)
	svc, err := NewService(cfg, opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, clock
}

func TestConfig(t *testing.T) {
	cfg := Config{Secret: testSecret}
	cfg.ApplyDefaults()
	if cfg.AccessTokenTTL != time.Hour {
		t.Errorf("expected default TTL 1h, got %s", cfg.AccessTokenTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if _, err := NewService(Config{}); err == nil {
		t.Error("expected error for missing secret")
	}
	if _, err := NewService(Config{Secret: testSecret, AccessTokenTTL: -time.Second}); err == nil {
		t.Error("expected error for negative TTL")
	}
}

func TestIssueValidate_RoundTrip(t *testing.T) {
	svc, clock := newTestService(t, Config{})
	in := Claims{
		UserID:     42,
		AccessType: StringPtr("admin"),
		Extra:      map[string]any{"email": "ana@example.com"},
	}

	token, err := svc.Issue(in, 3600*time.Second)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.UserID != 42 {
		t.Errorf("expected user_id 42, got %d", got.UserID)
	}
	if got.AccessTypeValue() != "admin" {
		t.Errorf("expected access_type admin, got %q", got.AccessTypeValue())
	}
	if got.Extra["email"] != "ana@example.com" {
		t.Errorf("expected extra email, got %v", got.Extra)
	}
	if !got.IssuedAt.Time.Equal(clock.t) {
		t.Errorf("expected iat %v, got %v", clock.t, got.IssuedAt.Time)
	}
	if !got.ExpiresAt.Time.Equal(clock.t.Add(time.Hour)) {
		t.Errorf("expected exp %v, got %v", clock.t.Add(time.Hour), got.ExpiresAt.Time)
	}
	if got.ID == "" {
		t.Error("expected jti to be set")
	}
}

func TestIssue_NullAccessType(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	token, err := svc.IssueAccess(Claims{UserID: 7})
	if err != nil {
		t.Fatal(err)
	}

	payload := decodeSegment(t, strings.Split(token, ".")[1])
	if v, ok := payload["access_type"]; !ok || v != nil {
		t.Errorf("expected access_type null, got %v (present=%v)", v, ok)
	}
	if payload["user_id"] != float64(7) {
		t.Errorf("expected user_id 7, got %v", payload["user_id"])
	}

	got, err := svc.Validate(token)
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessType != nil {
		t.Errorf("expected nil access type, got %q", *got.AccessType)
	}
}

func TestIssue_UniqueJTI(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	a, _ := svc.IssueAccess(Claims{UserID: 1})
	b, _ := svc.IssueAccess(Claims{UserID: 1})
	if a == b {
		t.Error("expected distinct tokens for identical claims")
	}
}

func TestIssue_InvalidTTL(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	for _, ttl := range []time.Duration{0, -time.Second} {
		if _, err := svc.Issue(Claims{UserID: 1}, ttl); !errors.HasCode(err, errors.ErrCodeInvalidTTL) {
			t.Errorf("ttl %s: expected INVALID_TTL, got %v", ttl, err)
		}
	}
}

func TestIssue_ExpRoundsUp(t *testing.T) {
	svc, clock := newTestService(t, Config{})
	clock.t = clock.t.Add(300 * time.Millisecond)

	token, err := svc.Issue(Claims{UserID: 1}, 1500*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	payload := decodeSegment(t, strings.Split(token, ".")[1])
	if payload["iat"] != float64(1_700_000_000) {
		t.Errorf("expected iat truncated, got %v", payload["iat"])
	}
	if payload["exp"] != float64(1_700_000_002) {
		t.Errorf("expected exp rounded up, got %v", payload["exp"])
	}
}

func TestValidate_Expiry(t *testing.T) {
	svc, clock := newTestService(t, Config{})
	token, err := svc.Issue(Claims{UserID: 1}, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	clock.Advance(999 * time.Millisecond)
	if _, err := svc.Validate(token); err != nil {
		t.Fatalf("expected token to be valid before exp, got %v", err)
	}

	clock.Advance(time.Millisecond)
	_, err = svc.Validate(token)
	if !errors.HasCode(err, errors.ErrCodeTokenExpired) {
		t.Fatalf("expected TOKEN_EXPIRED at exp, got %v", err)
	}
	if !errors.IsToken(err) {
		t.Error("expected token category")
	}

	clock.Advance(time.Hour)
	if _, err := svc.Validate(token); !errors.HasCode(err, errors.ErrCodeTokenExpired) {
		t.Fatalf("expected TOKEN_EXPIRED after exp, got %v", err)
	}
}

func TestValidate_TamperedClaims(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	token, err := svc.IssueAccess(Claims{UserID: 42, AccessType: StringPtr("user")})
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(token, ".")
	claimsSeg := []byte(parts[1])

	for i := range claimsSeg {
		mutated := make([]byte, len(claimsSeg))
		copy(mutated, claimsSeg)
		mutated[i] = flip(mutated[i])
		tampered := parts[0] + "." + string(mutated) + "." + parts[2]

		if _, err := svc.Validate(tampered); !errors.HasCode(err, errors.ErrCodeBadSignature) {
			t.Fatalf("position %d: expected BAD_SIGNATURE, got %v", i, err)
		}
	}
}

func TestValidate_ForgedClaims(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	token, _ := svc.IssueAccess(Claims{UserID: 42})
	parts := strings.Split(token, ".")

	payload := decodeSegment(t, parts[1])
	payload["user_id"] = 1
	forged, _ := json.Marshal(payload)
	tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(forged) + "." + parts[2]

	if _, err := svc.Validate(tampered); !errors.HasCode(err, errors.ErrCodeBadSignature) {
		t.Fatalf("expected BAD_SIGNATURE, got %v", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer, _ := newTestService(t, Config{Secret: strings.Repeat("x", 32)})
	verifier, _ := newTestService(t, Config{})
	token, _ := issuer.IssueAccess(Claims{UserID: 1})

	if _, err := verifier.Validate(token); !errors.HasCode(err, errors.ErrCodeBadSignature) {
		t.Fatalf("expected BAD_SIGNATURE, got %v", err)
	}
}

func TestValidate_Malformed(t *testing.T) {
	svc, clock := newTestService(t, Config{})
	valid, _ := svc.IssueAccess(Claims{UserID: 1})
	parts := strings.Split(valid, ".")

	sign := func(header, payload string) string {
		h := base64.RawURLEncoding.EncodeToString([]byte(header))
		p := base64.RawURLEncoding.EncodeToString([]byte(payload))
		sig, err := gojwt.SigningMethodHS256.Sign(h+"."+p, []byte(testSecret))
		if err != nil {
			t.Fatal(err)
		}
		return h + "." + p + "." + base64.RawURLEncoding.EncodeToString(sig)
	}
	hs256 := `{"alg":"HS256","typ":"JWT"}`
	exp := clock.t.Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one segment", "abc"},
		{"two segments", parts[0] + "." + parts[1]},
		{"four segments", valid + ".x"},
		{"header not base64", "!!!." + parts[1] + "." + parts[2]},
		{"header not json", base64.RawURLEncoding.EncodeToString([]byte("nope")) + "." + parts[1] + "." + parts[2]},
		{"signature not base64", parts[0] + "." + parts[1] + ".***"},
		{"alg none", sign(`{"alg":"none"}`, `{"user_id":1}`)},
		{"alg HS512", sign(`{"alg":"HS512"}`, `{"user_id":1}`)},
		{"claims not json", sign(hs256, "not json")},
		{"missing exp", sign(hs256, `{"user_id":1}`)},
		{"missing user_id", sign(hs256, `{"exp":`+itoa(exp)+`}`)},
		{"null user_id", sign(hs256, `{"user_id":null,"exp":`+itoa(exp)+`}`)},
		{"string user_id", sign(hs256, `{"user_id":"1","exp":`+itoa(exp)+`}`)},
		{"string exp", sign(hs256, `{"user_id":1,"exp":"soon"}`)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Validate(tc.token)
			if !errors.HasCode(err, errors.ErrCodeTokenMalformed) {
				t.Fatalf("expected TOKEN_MALFORMED, got %v", err)
			}
		})
	}

	t.Run("hand-signed valid token", func(t *testing.T) {
		claims, err := svc.Validate(sign(hs256, `{"user_id":5,"exp":`+itoa(exp)+`,"role":"x"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claims.UserID != 5 || claims.Extra["role"] != "x" {
			t.Errorf("unexpected claims %+v", claims)
		}
	})
}

func TestValidate_IssuerAudience(t *testing.T) {
	svc, _ := newTestService(t, Config{Issuer: "cuidar-api", Audience: []string{"cuidar-web"}})
	token, err := svc.IssueAccess(Claims{UserID: 1})
	if err != nil {
		t.Fatal(err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Issuer != "cuidar-api" {
		t.Errorf("expected issuer, got %q", claims.Issuer)
	}

	other, _ := newTestService(t, Config{Issuer: "someone-else"})
	if _, err := other.Validate(token); !errors.HasCode(err, errors.ErrCodeTokenMalformed) {
		t.Fatalf("expected TOKEN_MALFORMED for issuer mismatch, got %v", err)
	}
}

func TestValidatorFunc(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	validate := svc.ValidatorFunc()

	token, _ := svc.IssueAccess(Claims{UserID: 9})
	v, err := validate(token)
	if err != nil {
		t.Fatal(err)
	}
	if c, ok := v.(*Claims); !ok || c.UserID != 9 {
		t.Errorf("expected *Claims with user 9, got %#v", v)
	}

	v, err = validate("bad")
	if err == nil || v != nil {
		t.Errorf("expected nil claims and error, got %v, %v", v, err)
	}
}

func TestService_RecordsValidationKinds(t *testing.T) {
	reader, mp := obstest.NewReader(t)
	metrics, err := observability.NewCredentialMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	svc, clock := newTestService(t, Config{}, WithMetrics(metrics))

	token, _ := svc.Issue(Claims{UserID: 1}, time.Minute)
	_, _ = svc.Validate(token)
	_, _ = svc.Validate("garbage")
	clock.Advance(time.Hour)
	_, _ = svc.Validate(token)

	got := obstest.CounterValues(t, reader, observability.MetricTokenValidation, observability.AttrResult)
	for kind, want := range map[string]int64{"valid": 1, "TOKEN_MALFORMED": 1, "TOKEN_EXPIRED": 1} {
		if got[kind] != want {
			t.Errorf("%s: expected %d, got %d", kind, want, got[kind])
		}
	}
}

func TestClaims_UnmarshalIgnoresCollidingExtra(t *testing.T) {
	data, err := json.Marshal(Claims{UserID: 3, Extra: map[string]any{"user_id": 99, "exp": "x", "k": "v"}})
	if err != nil {
		t.Fatal(err)
	}
	var got Claims
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.UserID != 3 || got.Extra["k"] != "v" || len(got.Extra) != 1 {
		t.Errorf("unexpected claims %+v", got)
	}
}

func flip(c byte) byte {
	if c == 'A' {
		return 'B'
	}
	return 'A'
}

func itoa(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func decodeSegment(t *testing.T, seg string) map[string]any {
	t.Helper()
	raw, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		t.Fatalf("decode segment: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal segment: %v", err)
	}
	return out
}
