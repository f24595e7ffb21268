// Package validator wraps struct-tag validation for request payloads.
// This is part of the platform layer and contains no business logic.
package validator

import "github.com/go-playground/validator/v10"

// Validator wraps the go-playground validator so handlers depend on a
// small injectable type instead of the library's singleton.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator. Custom rules are added through
// RegisterValidation.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Struct validates a struct against its validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single value against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation adds a custom validation function under a tag.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
