package handler

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to Echo's Validator interface
// so handlers can call c.Validate(dto) on bound request bodies.  Rules
// live as struct tags on the DTOs.
type Validator struct {
	validate *validator.Validate
}

// NewValidator constructs the validator used by the whole API.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator.  The returned error is the plain
// validator error; handlers map it to a 400 JSON body themselves so the
// error shape stays uniform across the API.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
