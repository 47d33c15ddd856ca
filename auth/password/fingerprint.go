package password

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short SHA-256 hex prefix of s. It identifies a token
// or hash in logs without revealing it.
func Fingerprint(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:6])
}
