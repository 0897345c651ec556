package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Deliberately loose: local@domain.tld with no whitespace, not RFC 5322
	simpleEmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// New returns a validator with the custom tags registered
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("simple_email", SimpleEmail)
	_ = v.RegisterValidation("honeypot", Honeypot)
}

// SimpleEmail validates the local@domain.tld shape
func SimpleEmail(fl validator.FieldLevel) bool {
	return IsSimpleEmail(fl.Field().String())
}

// IsSimpleEmail reports whether s has the local@domain.tld shape
func IsSimpleEmail(s string) bool {
	return simpleEmailRegex.MatchString(s)
}

// Honeypot passes only when the hidden field was left empty
func Honeypot(fl validator.FieldLevel) bool {
	return fl.Field().String() == ""
}
