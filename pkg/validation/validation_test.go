package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,coarse_email"`
	ServiceType string `validate:"service_type"`
	Message     string `validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v, func(s string) bool { return s == "tig" })
	return v
}

func TestCoarseEmail(t *testing.T) {
	v := newValidator()
	cases := map[string]bool{
		"jo@x.com":       true,
		"a.b@c":          true, // dot before the @ still counts
		"jo@localhost":   false,
		"jo.example.com": false,
		"bad":            false,
	}
	for in, want := range cases {
		err := v.Var(in, "coarse_email")
		assert.Equal(t, want, err == nil, in)
	}
}

func TestFormatValidationErrors_Order(t *testing.T) {
	v := newValidator()
	err := v.Struct(sampleForm{Email: "bad", ServiceType: "laser"})
	require.Error(t, err)

	assert.Equal(t, []string{
		"Name is required.",
		"Please enter a valid email address.",
		"Invalid service type selected.",
		"Please include a brief description of your project.",
	}, FormatValidationErrors(err))
}

func TestFormatValidationErrors_EmptyServiceTypeAllowed(t *testing.T) {
	v := newValidator()
	err := v.Struct(sampleForm{Name: "Jo", Email: "jo@x.com", Message: "hi"})
	assert.NoError(t, err)
}

func TestFormatValidationErrors_NonValidationError(t *testing.T) {
	assert.Equal(t, []string{"boom"}, FormatValidationErrors(errors.New("boom")))
}

func TestFormatValidationErrors_GenericFallback(t *testing.T) {
	type otherForm struct {
		ServiceType string `validate:"required"`
		Budget      string `validate:"required"`
		Deadline    string `validate:"service_type"`
	}
	v := newValidator()
	err := v.Struct(otherForm{Deadline: "soon"})
	require.Error(t, err)

	assert.Equal(t, []string{
		"Service type is required.",
		"Budget is required.",
		"Deadline is invalid.",
	}, FormatValidationErrors(err))
}
