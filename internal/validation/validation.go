// Package validation holds the shared validator used for config and request checks.
package validation

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks s against its `validate` struct tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// RegisterCustomValidation registers an additional tag on the shared validator.
func RegisterCustomValidation(tag string, fn validator.Func) error {
	return validate.RegisterValidation(tag, fn)
}
