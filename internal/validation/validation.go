// Package validation collects per-field input rules into the API's
// validation-error envelope.
package validation

import (
	"regexp"
	"strings"

	"devconnector/internal/models"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator accumulates failed field rules. The zero value is not usable;
// call New.
type Validator struct {
	errs []models.FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Require fails when value is empty after trimming.
func (v *Validator) Require(param, value, msg string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errs = append(v.errs, models.FieldError{Msg: msg, Param: param})
	}
	return v
}

// Email fails when value is not a plausible email address.
func (v *Validator) Email(param, value, msg string) *Validator {
	if !emailRegex.MatchString(value) {
		v.errs = append(v.errs, models.FieldError{Msg: msg, Param: param})
	}
	return v
}

// MinLength fails when value is shorter than min bytes.
func (v *Validator) MinLength(param, value string, min int, msg string) *Validator {
	if len(value) < min {
		v.errs = append(v.errs, models.FieldError{Msg: msg, Param: param})
	}
	return v
}

// Valid reports whether no rule has failed.
func (v *Validator) Valid() bool {
	return len(v.errs) == 0
}

// Errors returns the accumulated field errors in rule order.
func (v *Validator) Errors() []models.FieldError {
	return v.errs
}
