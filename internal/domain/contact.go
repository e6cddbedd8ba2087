package domain

import "context"

// Defaults recorded for optional fields left blank.
const (
	PhoneNotProvided    = "not provided"
	ServiceNotSpecified = "not specified"
)

// Form field names as submitted by the browser.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldServiceType = "service_type"
	FieldMessage     = "message"
)

// ContactFields lists the accepted form fields in display order.
var ContactFields = []string{FieldName, FieldEmail, FieldPhone, FieldServiceType, FieldMessage}

// ServiceType is one selectable option of the quote form.
type ServiceType struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

// ServiceTypes is the read-only catalog of service slugs. The validator
// accepts exactly these slugs, so every accepted slug has a label.
var ServiceTypes = []ServiceType{
	{Slug: "mig", Label: "MIG Welding"},
	{Slug: "tig", Label: "TIG Welding"},
	{Slug: "stick", Label: "Stick Welding"},
	{Slug: "fabrication", Label: "Custom Fabrication"},
	{Slug: "repair", Label: "Welding Repair"},
	{Slug: "mobile", Label: "Mobile Welding"},
	{Slug: "other", Label: "Other / Not Sure"},
}

// ServiceLabel returns the human-readable label for slug.
func ServiceLabel(slug string) (string, bool) {
	for _, st := range ServiceTypes {
		if st.Slug == slug {
			return st.Label, true
		}
	}
	return "", false
}

// IsServiceType reports whether slug is in the catalog.
func IsServiceType(slug string) bool {
	_, ok := ServiceLabel(slug)
	return ok
}

// Submission is one quote request. It lives for the duration of the request
// and is never stored.
type Submission struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ServiceType string `json:"service_type"`
	Message     string `json:"message"`
}

// ValidationResult is the outcome of validating one submission attempt.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// ServiceOptions returns the service types offered on the form.
	ServiceOptions() []ServiceType
	// SubmitQuoteRequest validates the raw form and, when valid, dispatches
	// the notification. The Submission is nil when validation fails.
	SubmitQuoteRequest(ctx context.Context, form map[string]string) (*Submission, ValidationResult)
}

// QuoteNotifier delivers a valid submission to the business. Dispatch never
// fails from the caller's point of view.
type QuoteNotifier interface {
	Dispatch(ctx context.Context, sub *Submission)
}
