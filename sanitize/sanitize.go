package sanitize

import (
	"strings"
	"unicode/utf8"

	"github.com/kbukum/credkit/errors"
)

// DefaultMaxLength applies to fields without a configured limit.
const DefaultMaxLength = 100

// The ampersand is listed first; strings.Replacer never rescans its own
// output, so the inserted references are not escaped again.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

// Sanitize trims raw, escapes it and checks the escaped length against
// maxLength. A negative maxLength is treated as 0. Empty input yields "".
func Sanitize(raw string, maxLength int) (string, error) {
	if maxLength < 0 {
		maxLength = 0
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}

	escaped := escaper.Replace(trimmed)
	if n := utf8.RuneCountInString(escaped); n > maxLength {
		return "", errors.TooLong(maxLength, n)
	}
	return escaped, nil
}

// Optional sanitizes raw, returning nil for blank input so callers can
// store an absent value instead of an empty string.
func Optional(raw string, maxLength int) (*string, error) {
	s, err := Sanitize(raw, maxLength)
	if err != nil || s == "" {
		return nil, err
	}
	return &s, nil
}
