package usecase_test

import (
	"context"
	"testing"

	"ironforge-backend/internal/domain"
	"ironforge-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	msgName    = "Name is required."
	msgEmail   = "Email is required."
	msgBadMail = "Please enter a valid email address."
	msgService = "Invalid service type selected."
	msgMessage = "Please include a brief description of your project."
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Dispatch(ctx context.Context, sub *domain.Submission) {
	m.Called(ctx, sub)
}

func validForm() map[string]string {
	return map[string]string{
		"name":         "Jo",
		"email":        "jo@x.com",
		"service_type": "tig",
		"message":      "need a railing",
	}
}

func TestValidateContactForm(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
		want   []string
	}{
		{name: "valid", mutate: func(map[string]string) {}, want: []string{}},
		{name: "missing name", mutate: func(f map[string]string) { delete(f, "name") }, want: []string{msgName}},
		{name: "whitespace name", mutate: func(f map[string]string) { f["name"] = "   \t" }, want: []string{msgName}},
		{name: "missing email", mutate: func(f map[string]string) { f["email"] = "" }, want: []string{msgEmail}},
		{name: "email without at", mutate: func(f map[string]string) { f["email"] = "jo.x.com" }, want: []string{msgBadMail}},
		{name: "email without dot", mutate: func(f map[string]string) { f["email"] = "jo@localhost" }, want: []string{msgBadMail}},
		{name: "coarse email accepted", mutate: func(f map[string]string) { f["email"] = "a.b@c" }, want: []string{}},
		{name: "unknown service", mutate: func(f map[string]string) { f["service_type"] = "laser" }, want: []string{msgService}},
		{name: "service with padding", mutate: func(f map[string]string) { f["service_type"] = "  mig " }, want: []string{}},
		{name: "service case sensitive", mutate: func(f map[string]string) { f["service_type"] = "MIG" }, want: []string{msgService}},
		{name: "empty service", mutate: func(f map[string]string) { f["service_type"] = "" }, want: []string{}},
		{name: "missing message", mutate: func(f map[string]string) { f["message"] = "\n" }, want: []string{msgMessage}},
		{name: "phone ignored", mutate: func(f map[string]string) { f["phone"] = "not a number" }, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(form)

			result := usecase.ValidateContactForm(form)
			assert.Equal(t, len(tt.want) == 0, result.Valid)
			assert.Equal(t, tt.want, result.Errors)
		})
	}
}

func TestValidateContactForm_AllErrorsInFieldOrder(t *testing.T) {
	result := usecase.ValidateContactForm(map[string]string{"name": "", "email": "bad", "message": ""})

	assert.False(t, result.Valid)
	assert.Equal(t, []string{msgName, msgBadMail, msgMessage}, result.Errors)

	result = usecase.ValidateContactForm(map[string]string{"service_type": "plasma"})
	assert.Equal(t, []string{msgName, msgEmail, msgService, msgMessage}, result.Errors)
}

func TestValidateContactForm_NilForm(t *testing.T) {
	result := usecase.ValidateContactForm(nil)
	assert.Equal(t, []string{msgName, msgEmail, msgMessage}, result.Errors)
}

func TestValidateContactForm_Idempotent(t *testing.T) {
	form := map[string]string{"email": "bad", "service_type": "x"}
	assert.Equal(t, usecase.ValidateContactForm(form), usecase.ValidateContactForm(form))
}

func TestNewSubmission_Defaults(t *testing.T) {
	sub := usecase.NewSubmission(map[string]string{
		"name":    "  Jo ",
		"email":   " jo@x.com",
		"message": " need a railing ",
	})

	assert.Equal(t, &domain.Submission{
		Name:        "Jo",
		Email:       "jo@x.com",
		Phone:       domain.PhoneNotProvided,
		ServiceType: domain.ServiceNotSpecified,
		Message:     "need a railing",
	}, sub)
}

func TestSubmitQuoteRequest(t *testing.T) {
	t.Run("Should dispatch sanitised submission when valid", func(t *testing.T) {
		notifier := new(MockNotifier)
		uc := usecase.NewContactUsecase(notifier, zap.NewNop())

		form := validForm()
		form["phone"] = " 555-0100 "

		notifier.On("Dispatch", mock.Anything, mock.AnythingOfType("*domain.Submission")).Return().Run(func(args mock.Arguments) {
			sub := args.Get(1).(*domain.Submission)
			assert.Equal(t, "555-0100", sub.Phone)
			assert.Equal(t, "tig", sub.ServiceType)
		})

		sub, result := uc.SubmitQuoteRequest(context.Background(), form)
		assert.True(t, result.Valid)
		assert.NotNil(t, sub)
		notifier.AssertNumberOfCalls(t, "Dispatch", 1)
	})

	t.Run("Should not dispatch and should log each error when invalid", func(t *testing.T) {
		notifier := new(MockNotifier)
		core, logs := observer.New(zapcore.DebugLevel)
		uc := usecase.NewContactUsecase(notifier, zap.New(core))

		ctx := context.WithValue(context.Background(), domain.KeyRequestID, "req-1")
		sub, result := uc.SubmitQuoteRequest(ctx, map[string]string{"name": "", "email": "bad", "message": ""})

		assert.Nil(t, sub)
		assert.False(t, result.Valid)
		notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)

		warnings := logs.FilterMessage("Form validation error").All()
		assert.Len(t, warnings, 3)
		assert.Equal(t, "req-1", warnings[0].ContextMap()["request_id"])
	})
}

func TestServiceOptions_ReturnsCopy(t *testing.T) {
	uc := usecase.NewContactUsecase(new(MockNotifier), zap.NewNop())

	opts := uc.ServiceOptions()
	assert.Len(t, opts, 7)
	opts[0].Label = "changed"

	assert.Equal(t, "MIG Welding", uc.ServiceOptions()[0].Label)
}
