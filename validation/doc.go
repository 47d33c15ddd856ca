// Package validation provides input validation for handler payloads.
//
// It supports both struct tag validation (using the validator library, with
// the extra tags "cpf" and "password") and programmatic validation with
// error collection. Both return a single validation AppError whose details
// list every failing field.
//
// # Struct Tag Validation
//
//	type RegisterRequest struct {
//	    Nome     string `json:"nome" validate:"required,max=100"`
//	    CPF      string `json:"cpf" validate:"required,cpf"`
//	    Password string `json:"password" validate:"required,password"`
//	}
//	err := validation.Validate(req)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("nome", nome).CPF("cpf", doc)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
