package sanitize

import (
	"maps"
	"slices"

	"github.com/kbukum/credkit/validation"
)

// Limits maps a field name to its maximum sanitized length.
type Limits map[string]int

// For returns the limit for field, or DefaultMaxLength when none is set.
func (l Limits) For(field string) int {
	if n, ok := l[field]; ok {
		return n
	}
	return DefaultMaxLength
}

// Merge returns a copy of l with the entries of other added or replaced.
func (l Limits) Merge(other Limits) Limits {
	out := maps.Clone(l)
	if out == nil {
		out = make(Limits, len(other))
	}
	maps.Copy(out, other)
	return out
}

// DefaultUserLimits are the limits of the user registration form.
var DefaultUserLimits = Limits{
	"nome":               100,
	"rua":                100,
	"numero":             10,
	"complemento":        50,
	"cep":                8,
	"bairro":             50,
	"cidade":             50,
	"estado":             2,
	"setor":              50,
	"funcao":             50,
	"email":              100,
	"telefone":           20,
	"status":             20,
	"tipo_acesso":        20,
	"especialidade":      50,
	"registro_categoria": 20,
}

// Record sanitizes every field against limits. All overflowing fields are
// reported together in one validation error whose details list each field.
// Fields are checked in name order and blank fields are omitted from the result.
func Record(fields map[string]string, limits Limits) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	v := validation.New()
	for _, field := range slices.Sorted(maps.Keys(fields)) {
		s, err := Sanitize(fields[field], limits.For(field))
		if err != nil {
			v.AddAppError(field, err)
			continue
		}
		if s != "" {
			out[field] = s
		}
	}
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}
	return out, nil
}
