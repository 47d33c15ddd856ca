package cpf

import (
	"github.com/kbukum/credkit/errors"
)

// Length is the number of digits in a CPF.
const Length = 11

// Number is a validated 11-digit CPF without punctuation.
type Number string

// String returns the 11 digits.
func (n Number) String() string { return string(n) }

// Formatted returns the number as 000.000.000-00.
func (n Number) Formatted() string {
	s := string(n)
	if len(s) != Length {
		return s
	}
	return s[0:3] + "." + s[3:6] + "." + s[6:9] + "-" + s[9:11]
}

// Parse strips every non-digit from input and validates the remaining digits.
func Parse(input string) (Number, error) {
	digits := extractDigits(input)
	if len(digits) != Length {
		return "", errors.WrongLength(len(digits))
	}
	if repeated(digits) {
		return "", errors.RepeatedDigits()
	}

	var base [9]int
	for i := range base {
		base[i] = int(digits[i] - '0')
	}
	d1, d2 := CheckDigits(base)
	if int(digits[9]-'0') != d1 || int(digits[10]-'0') != d2 {
		return "", errors.InvalidChecksum()
	}
	return Number(digits), nil
}

// Valid reports whether input parses as a CPF.
func Valid(input string) bool {
	_, err := Parse(input)
	return err == nil
}

// CheckDigits computes both check digits for the nine base digits.
func CheckDigits(base [9]int) (d1, d2 int) {
	sum := 0
	for i, d := range base {
		sum += d * (10 - i)
	}
	d1 = checkDigit(sum)

	sum = 0
	for i, d := range base {
		sum += d * (11 - i)
	}
	sum += d1 * 2
	d2 = checkDigit(sum)
	return d1, d2
}

func checkDigit(sum int) int {
	d := (sum * 10) % 11
	if d == 10 {
		return 0
	}
	return d
}

func extractDigits(s string) string {
	out := make([]byte, 0, Length)
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			out = append(out, c)
		}
	}
	return string(out)
}

func repeated(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
