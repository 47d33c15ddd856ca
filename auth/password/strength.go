package password

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Violation identifies one failed strength rule.
type Violation string

const (
	ViolationTooShort    Violation = "too_short"
	ViolationNoLowercase Violation = "no_lowercase"
	ViolationNoUppercase Violation = "no_uppercase"
	ViolationNoDigit     Violation = "no_digit"
	ViolationNoSpecial   Violation = "no_special"
)

// Strength is the result of a policy check. Violations are ordered as the
// rules are checked: length, lowercase, uppercase, digit, special character.
type Strength struct {
	Valid      bool
	Violations []Violation

	minLength int
	specials  string
}

// Messages returns a human-readable message per violation.
func (s Strength) Messages() []string {
	out := make([]string, 0, len(s.Violations))
	for _, v := range s.Violations {
		out = append(out, s.message(v))
	}
	return out
}

func (s Strength) message(v Violation) string {
	switch v {
	case ViolationTooShort:
		return fmt.Sprintf("must be at least %d characters long", s.minLength)
	case ViolationNoLowercase:
		return "must contain a lowercase letter"
	case ViolationNoUppercase:
		return "must contain an uppercase letter"
	case ViolationNoDigit:
		return "must contain a digit"
	case ViolationNoSpecial:
		return "must contain one of " + s.specials
	default:
		return string(v)
	}
}

// ValidateStrength checks password against the policy in cfg. Every rule is
// evaluated so the caller can report all failures at once. The letter rules
// count ASCII letters only; accented letters satisfy neither.
func ValidateStrength(password string, cfg Config) Strength {
	cfg.ApplyDefaults()
	s := Strength{minLength: cfg.MinLength, specials: cfg.SpecialCharacters}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case 'a' <= r && r <= 'z':
			lower = true
		case 'A' <= r && r <= 'Z':
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(cfg.SpecialCharacters, r):
			special = true
		}
	}

	if utf8.RuneCountInString(password) < cfg.MinLength {
		s.Violations = append(s.Violations, ViolationTooShort)
	}
	if !lower {
		s.Violations = append(s.Violations, ViolationNoLowercase)
	}
	if !upper {
		s.Violations = append(s.Violations, ViolationNoUppercase)
	}
	if !digit {
		s.Violations = append(s.Violations, ViolationNoDigit)
	}
	if !special {
		s.Violations = append(s.Violations, ViolationNoSpecial)
	}
	s.Valid = len(s.Violations) == 0
	return s
}
