// Package cpf parses and validates Brazilian CPF numbers.
//
// A CPF has nine base digits followed by two check digits. Parse strips any
// punctuation, rejects numbers that are not exactly 11 digits or that repeat
// one digit, and verifies both check digits:
//
//	n, err := cpf.Parse("529.982.247-25")
//	if err != nil {
//	    // errors.CodeOf(err) is WRONG_LENGTH, REPEATED_DIGITS or INVALID_CHECKSUM
//	}
//	n.String()    // "52998224725"
//	n.Formatted() // "529.982.247-25"
//
// A Number can only be obtained through Parse, so holding one means the
// document was validated.
package cpf
