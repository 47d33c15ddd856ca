package password

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/credkit/errors"
	"github.com/kbukum/credkit/logger"
	"github.com/kbukum/credkit/observability"
)

// Hasher hashes passwords with argon2id and verifies argon2id or legacy
// bcrypt hashes. It holds no mutable state and is safe for concurrent use.
type Hasher struct {
	cfg     Config
	random  io.Reader
	log     *logger.Logger
	metrics *observability.CredentialMetrics
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithLogger sets the logger (default: the "password" component logger).
func WithLogger(l *logger.Logger) Option {
	return func(h *Hasher) { h.log = l }
}

// WithMetrics records hash and verify outcomes.
func WithMetrics(m *observability.CredentialMetrics) Option {
	return func(h *Hasher) { h.metrics = m }
}

// WithRandom sets the salt source (default: crypto/rand).
func WithRandom(r io.Reader) Option {
	return func(h *Hasher) { h.random = r }
}

// NewHasher creates a Hasher from configuration.
func NewHasher(cfg Config, opts ...Option) (*Hasher, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("password: %w", err)
	}
	h := &Hasher{cfg: cfg, random: rand.Reader}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.Get(logger.ComponentPassword)
	}
	return h, nil
}

// Config returns the target parameters.
func (h *Hasher) Config() Config { return h.cfg }

// Hash derives a new argon2id hash with a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.EmptyPassword()
	}

	salt := make([]byte, h.cfg.SaltLength)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return "", errors.Internal(fmt.Errorf("password: generate salt: %w", err))
	}

	p := params{
		memory:  h.cfg.Argon2Memory,
		time:    h.cfg.Argon2Time,
		threads: h.cfg.Argon2Threads,
	}
	key := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, h.cfg.KeyLength)
	h.metrics.RecordHash(context.Background(), string(AlgorithmArgon2id))
	return encode(p, salt, key), nil
}

// Verify reports whether candidate matches the stored hash. A mismatch is
// (false, nil); a stored hash that cannot be parsed is a HASH_MALFORMED error.
func (h *Hasher) Verify(stored, candidate string) (bool, error) {
	if isBcrypt(stored) {
		return h.verifyBcrypt(stored, candidate)
	}

	d, err := h.decode(stored)
	if err != nil {
		h.rejectMalformed(err)
		return false, err
	}
	key := argon2.IDKey([]byte(candidate), d.salt, d.time, d.memory, d.threads, uint32(len(d.key)))
	ok := subtle.ConstantTimeCompare(key, d.key) == 1
	h.metrics.RecordVerify(context.Background(), string(AlgorithmArgon2id), verifyResult(ok))
	return ok, nil
}

func (h *Hasher) verifyBcrypt(stored, candidate string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate))
	switch {
	case err == nil:
		h.metrics.RecordVerify(context.Background(), string(AlgorithmBcrypt), verifyResult(true))
		return true, nil
	case err == bcrypt.ErrMismatchedHashAndPassword:
		h.metrics.RecordVerify(context.Background(), string(AlgorithmBcrypt), verifyResult(false))
		return false, nil
	default:
		appErr := errors.HashMalformed("bcrypt").WithCause(err)
		h.rejectMalformed(appErr)
		return false, appErr
	}
}

// NeedsRehash reports whether the stored hash differs from the target
// algorithm or parameters and should be replaced. A stored hash Verify
// would reject is a HASH_MALFORMED error here too.
func (h *Hasher) NeedsRehash(stored string) (bool, error) {
	if isBcrypt(stored) {
		if _, err := bcrypt.Cost([]byte(stored)); err != nil {
			return false, errors.HashMalformed("bcrypt").WithCause(err)
		}
		return true, nil
	}

	d, err := h.decode(stored)
	if err != nil {
		return false, err
	}
	return d.memory != h.cfg.Argon2Memory ||
		d.time != h.cfg.Argon2Time ||
		d.threads != h.cfg.Argon2Threads ||
		uint32(len(d.key)) != h.cfg.KeyLength ||
		uint32(len(d.salt)) != h.cfg.SaltLength, nil
}

// ValidateStrength checks password against the configured policy.
func (h *Hasher) ValidateStrength(password string) Strength {
	return ValidateStrength(password, h.cfg)
}

func (h *Hasher) rejectMalformed(err error) {
	h.metrics.RecordVerify(context.Background(), "unknown", string(errors.CodeOf(err)))
	h.log.Warn("stored hash rejected", logger.Fields(logger.FieldKind, string(errors.CodeOf(err))))
}

// decode parses stored and rejects parameters outside the configured
// ceilings, so a corrupt hash cannot make argon2 exhaust memory or CPU.
func (h *Hasher) decode(stored string) (*decoded, error) {
	d, err := decode(stored)
	if err != nil {
		return nil, err
	}
	switch {
	case d.memory > h.cfg.MaxArgon2Memory:
		return nil, errors.HashMalformed("memory parameter above limit").
			WithDetails(map[string]any{"m": d.memory, "max": h.cfg.MaxArgon2Memory})
	case d.time > h.cfg.MaxArgon2Time:
		return nil, errors.HashMalformed("time parameter above limit").
			WithDetails(map[string]any{"t": d.time, "max": h.cfg.MaxArgon2Time})
	}
	return d, nil
}

func verifyResult(ok bool) string {
	if ok {
		return "match"
	}
	return "mismatch"
}

// --- PHC encoding ---

type params struct {
	memory  uint32
	time    uint32
	threads uint8
}

type decoded struct {
	params
	version int
	salt    []byte
	key     []byte
}

func encode(p params, salt, key []byte) string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		AlgorithmArgon2id,
		argon2.Version,
		p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

func decode(stored string) (*decoded, error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.HashMalformed("expected six $-separated fields")
	}
	if parts[1] != string(AlgorithmArgon2id) {
		return nil, errors.HashMalformed("unsupported algorithm").WithDetail("algorithm", parts[1])
	}

	d := &decoded{}
	v, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, errors.HashMalformed("missing version")
	}
	version, err := strconv.Atoi(v)
	if err != nil {
		return nil, errors.HashMalformed("invalid version").WithCause(err)
	}
	if version != argon2.Version {
		return nil, errors.HashMalformed("unsupported version").WithDetail("version", version)
	}
	d.version = version

	if err := parseParams(parts[3], &d.params); err != nil {
		return nil, err
	}

	if d.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(d.salt) == 0 {
		return nil, errors.HashMalformed("invalid salt encoding").WithCause(err)
	}
	if d.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(d.key) == 0 {
		return nil, errors.HashMalformed("invalid hash encoding").WithCause(err)
	}
	return d, nil
}

func parseParams(s string, p *params) error {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return errors.HashMalformed("expected m, t and p parameters")
	}
	values := make(map[string]uint64, 3)
	for _, f := range fields {
		k, raw, ok := strings.Cut(f, "=")
		if !ok {
			return errors.HashMalformed("invalid parameter").WithDetail("parameter", f)
		}
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return errors.HashMalformed("invalid parameter value").WithCause(err).WithDetail("parameter", k)
		}
		values[k] = n
	}
	m, okM := values["m"]
	t, okT := values["t"]
	th, okP := values["p"]
	if !okM || !okT || !okP || m == 0 || t == 0 || th == 0 || th > 255 {
		return errors.HashMalformed("invalid m, t or p parameter")
	}
	if m < 8*th {
		return errors.HashMalformed("memory below 8*p KiB").WithDetails(map[string]any{"m": m, "p": th})
	}
	p.memory, p.time, p.threads = uint32(m), uint32(t), uint8(th)
	return nil
}

func isBcrypt(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}
