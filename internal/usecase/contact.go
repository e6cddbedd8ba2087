package usecase

import (
	"context"
	"strings"

	"ironforge-backend/internal/domain"
	"ironforge-backend/pkg/metrics"
	"ironforge-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// contactForm carries the trimmed values through the validator. Field order
// fixes the order of the error messages.
type contactForm struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,coarse_email"`
	ServiceType string `validate:"service_type"`
	Message     string `validate:"required"`
}

// validator.Validate caches struct metadata and is safe for concurrent use.
var contactValidator = newContactValidator()

func newContactValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v, domain.IsServiceType)
	return v
}

// ValidateContactForm checks a raw quote form. Absent keys count as empty.
// Every rule is evaluated, so all problems are reported at once.
func ValidateContactForm(form map[string]string) domain.ValidationResult {
	f := contactForm{
		Name:        formValue(form, domain.FieldName),
		Email:       formValue(form, domain.FieldEmail),
		ServiceType: formValue(form, domain.FieldServiceType),
		Message:     formValue(form, domain.FieldMessage),
	}

	errs := []string{}
	if err := contactValidator.Struct(f); err != nil {
		errs = validation.FormatValidationErrors(err)
	}
	return domain.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// NewSubmission builds the sanitised Submission from a validated form.
func NewSubmission(form map[string]string) *domain.Submission {
	sub := &domain.Submission{
		Name:        formValue(form, domain.FieldName),
		Email:       formValue(form, domain.FieldEmail),
		Phone:       formValue(form, domain.FieldPhone),
		ServiceType: formValue(form, domain.FieldServiceType),
		Message:     formValue(form, domain.FieldMessage),
	}
	if sub.Phone == "" {
		sub.Phone = domain.PhoneNotProvided
	}
	if sub.ServiceType == "" {
		sub.ServiceType = domain.ServiceNotSpecified
	}
	return sub
}

func formValue(form map[string]string, key string) string {
	return strings.TrimSpace(form[key])
}

type contactUsecase struct {
	notifier domain.QuoteNotifier
	log      *zap.Logger
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(notifier domain.QuoteNotifier, log *zap.Logger) domain.ContactUsecase {
	return &contactUsecase{
		notifier: notifier,
		log:      log,
	}
}

func (uc *contactUsecase) ServiceOptions() []domain.ServiceType {
	return append([]domain.ServiceType(nil), domain.ServiceTypes...)
}

// SubmitQuoteRequest validates the form and hands valid submissions to the
// notifier. Delivery problems never surface here.
func (uc *contactUsecase) SubmitQuoteRequest(ctx context.Context, form map[string]string) (*domain.Submission, domain.ValidationResult) {
	log := uc.log.With(requestIDField(ctx))

	result := ValidateContactForm(form)
	if !result.Valid {
		for _, msg := range result.Errors {
			log.Warn("Form validation error", zap.String("error", msg))
		}
		metrics.QuoteRequests.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, result
	}

	sub := NewSubmission(form)
	log.Info("Quote request received",
		zap.String("name", sub.Name),
		zap.String("email", sub.Email),
		zap.String("service", sub.ServiceType),
		zap.String("phone", sub.Phone),
	)
	metrics.QuoteRequests.WithLabelValues(metrics.OutcomeAccepted).Inc()

	uc.notifier.Dispatch(ctx, sub)
	return sub, result
}

func requestIDField(ctx context.Context) zap.Field {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return zap.String("request_id", id)
}
