package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldMessages maps struct field -> validation tag -> the message shown to
// the customer. Fields or tags not listed fall back to a generic message.
var FieldMessages = map[string]map[string]string{
	"Name": {
		"required": "Name is required.",
	},
	"Email": {
		"required":     "Email is required.",
		"coarse_email": "Please enter a valid email address.",
	},
	"ServiceType": {
		"service_type": "Invalid service type selected.",
	},
	"Message": {
		"required": "Please include a brief description of your project.",
	},
}

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	"Name":        "Name",
	"Email":       "Email",
	"ServiceType": "Service type",
	"Message":     "Project description",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly
// messages. Order follows the struct field order.
func FormatValidationErrors(err error) []string {
	var messages []string

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}

	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	if byTag, ok := FieldMessages[e.Field()]; ok {
		if msg, ok := byTag[e.Tag()]; ok {
			return msg
		}
	}

	label := getFieldLabel(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return fieldName
}
