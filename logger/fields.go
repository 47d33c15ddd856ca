package logger

import (
	"strings"
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent   = "component"
	FieldTraceID     = "trace_id"
	FieldSpanID      = "span_id"
	FieldRequestID   = "request_id"
	FieldUserID      = "user_id"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldKind        = "kind"
	FieldAlgorithm   = "algorithm"
	FieldFingerprint = "fingerprint"
	FieldField       = "field"
)

// Redacted replaces the value of a sensitive field.
const Redacted = "[REDACTED]"

// sensitiveKeys are matched case-insensitively against field names.
var sensitiveKeys = []string{"password", "senha", "secret", "token", "hash", "authorization"}

// Redact reports whether values logged under key are replaced by Redacted.
// A fingerprint is the way to correlate a token or hash in logs.
func Redact(key string) bool {
	k := strings.ToLower(key)
	if k == FieldFingerprint {
		return false
	}
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

func redact(key string, value interface{}) interface{} {
	if Redact(key) {
		return Redacted
	}
	return value
}

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("op", "save", "id", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}
