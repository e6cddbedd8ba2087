package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators registers custom validators to the validator instance.
// isServiceType decides which service slugs the service_type tag accepts.
func RegisterValidators(v *validator.Validate, isServiceType func(string) bool) {
	_ = v.RegisterValidation("coarse_email", CoarseEmail)
	_ = v.RegisterValidation("service_type", func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		if val == "" {
			return true // unspecified is allowed
		}
		return isServiceType(val)
	})
}

// CoarseEmail only checks that both "@" and "." appear somewhere in the
// value. Known limitation: it accepts many malformed addresses and rejects
// dotless internal domains. Tightening it changes which inputs are accepted.
func CoarseEmail(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return strings.Contains(val, "@") && strings.Contains(val, ".")
}
