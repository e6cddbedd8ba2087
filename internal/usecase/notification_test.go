package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ironforge-backend/internal/domain"
	"ironforge-backend/internal/usecase"
	"ironforge-backend/pkg/email"
	"ironforge-backend/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, msg email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockTransport) Name() string {
	return "mock"
}

// blockingTransport waits for ctx, the way a hung SMTP server would.
type blockingTransport struct{}

func (blockingTransport) Send(ctx context.Context, msg email.Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingTransport) Name() string { return "blocking" }

type panickingTransport struct{}

func (panickingTransport) Send(ctx context.Context, msg email.Message) error { panic("nil dialer") }

func (panickingTransport) Name() string { return "panicking" }

func jo() *domain.Submission {
	return &domain.Submission{
		Name:        "Jo",
		Email:       "jo@x.com",
		Phone:       domain.PhoneNotProvided,
		ServiceType: "tig",
		Message:     "need a railing",
	}
}

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestComposeQuoteBody(t *testing.T) {
	body := usecase.ComposeQuoteBody(jo(), "TIG Welding")

	want := "New quote request from the Ironforge Welding website.\n" +
		"\n" +
		"--- Customer Details ---\n" +
		"Name:    Jo\n" +
		"Email:   jo@x.com\n" +
		"Phone:   not provided\n" +
		"Service: TIG Welding\n" +
		"\n" +
		"--- Project Description ---\n" +
		"need a railing\n" +
		"\n" +
		"---\n" +
		"Reply directly to this email to respond to the customer."
	assert.Equal(t, want, body)
}

func TestResolveServiceLabel(t *testing.T) {
	assert.Equal(t, "TIG Welding", usecase.ResolveServiceLabel("tig"))
	assert.Equal(t, "Other / Not Sure", usecase.ResolveServiceLabel("other"))
	assert.Equal(t, domain.ServiceNotSpecified, usecase.ResolveServiceLabel(domain.ServiceNotSpecified))
	assert.Equal(t, "plasma", usecase.ResolveServiceLabel("plasma"))
}

func TestDispatch_MailDisabled(t *testing.T) {
	transport := new(MockTransport)
	log, logs := observed()
	notifier := usecase.NewQuoteNotifier(usecase.NotifierConfig{Enabled: false}, transport, log)

	before := testutil.ToFloat64(metrics.Notifications.WithLabelValues(metrics.NotificationLogged))
	notifier.Dispatch(context.Background(), jo())

	transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)

	body := usecase.ComposeQuoteBody(jo(), "TIG Welding")
	count := 0
	for _, entry := range logs.All() {
		if entry.ContextMap()["body"] == body {
			count++
			assert.Equal(t, zapcore.InfoLevel, entry.Level)
		}
	}
	assert.Equal(t, 1, count)

	logged := logs.All()[0].ContextMap()["body"].(string)
	assert.Contains(t, logged, "Name:    Jo")
	assert.Contains(t, logged, "Email:   jo@x.com")
	assert.Contains(t, logged, "Service: TIG Welding")
	assert.Contains(t, logged, "need a railing")

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Notifications.WithLabelValues(metrics.NotificationLogged)))
}

func TestDispatch_MailDisabledWithoutTransport(t *testing.T) {
	log, logs := observed()
	notifier := usecase.NewQuoteNotifier(usecase.NotifierConfig{}, nil, log)

	assert.NotPanics(t, func() { notifier.Dispatch(context.Background(), jo()) })
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.InfoLevel).Len())
}

func TestDispatch_MailEnabled(t *testing.T) {
	transport := new(MockTransport)
	log, logs := observed()
	cfg := usecase.NotifierConfig{Enabled: true, Recipient: "owner@ironforgewelding.com"}
	notifier := usecase.NewQuoteNotifier(cfg, transport, log)

	transport.On("Send", mock.Anything, email.Message{
		To:      "owner@ironforgewelding.com",
		Subject: "New Quote Request from Jo",
		Body:    usecase.ComposeQuoteBody(jo(), "TIG Welding"),
		ReplyTo: "jo@x.com",
	}).Return(nil).Once()

	notifier.Dispatch(context.Background(), jo())

	transport.AssertExpectations(t)
	assert.Equal(t, 1, logs.FilterMessage("Quote notification email sent").Len())
	assert.Equal(t, 0, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestDispatch_TransportFailure(t *testing.T) {
	transport := new(MockTransport)
	log, logs := observed()
	cfg := usecase.NotifierConfig{Enabled: true, Recipient: "owner@ironforgewelding.com"}
	notifier := usecase.NewQuoteNotifier(cfg, transport, log)

	transport.On("Send", mock.Anything, mock.AnythingOfType("email.Message")).
		Return(errors.New("535 authentication failed")).Once()

	before := testutil.ToFloat64(metrics.Notifications.WithLabelValues(metrics.NotificationFailed))
	assert.NotPanics(t, func() { notifier.Dispatch(context.Background(), jo()) })

	failures := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, failures, 1)
	fields := failures[0].ContextMap()
	assert.Equal(t, usecase.ComposeQuoteBody(jo(), "TIG Welding"), fields["body"])
	assert.Equal(t, "535 authentication failed", fields["error"])
	assert.Equal(t, "jo@x.com", fields["customer_email"])

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Notifications.WithLabelValues(metrics.NotificationFailed)))
}

func TestDispatch_SendTimeoutIsNonFatal(t *testing.T) {
	log, logs := observed()
	cfg := usecase.NotifierConfig{Enabled: true, Recipient: "owner@ironforgewelding.com", SendTimeout: 20 * time.Millisecond}
	notifier := usecase.NewQuoteNotifier(cfg, blockingTransport{}, log)

	start := time.Now()
	notifier.Dispatch(context.Background(), jo())

	assert.Less(t, time.Since(start), time.Second)
	failures := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].ContextMap()["error"], "deadline exceeded")
}

func TestDispatch_CancelledRequestStillSends(t *testing.T) {
	transport := new(MockTransport)
	cfg := usecase.NotifierConfig{Enabled: true, Recipient: "owner@ironforgewelding.com"}
	notifier := usecase.NewQuoteNotifier(cfg, transport, zap.NewNop())

	transport.On("Send", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		assert.NoError(t, ctx.Err())
	}).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	notifier.Dispatch(ctx, jo())

	transport.AssertExpectations(t)
}

func TestDispatch_ContainsTransportPanic(t *testing.T) {
	log, logs := observed()
	cfg := usecase.NotifierConfig{Enabled: true, Recipient: "owner@ironforgewelding.com"}
	notifier := usecase.NewQuoteNotifier(cfg, panickingTransport{}, log)

	assert.NotPanics(t, func() { notifier.Dispatch(context.Background(), jo()) })
	assert.Equal(t, 1, logs.FilterMessage("Mail transport panicked").Len())
}

func TestDispatch_EnabledWithoutTransport(t *testing.T) {
	log, logs := observed()
	notifier := usecase.NewQuoteNotifier(usecase.NotifierConfig{Enabled: true}, nil, log)

	assert.NotPanics(t, func() { notifier.Dispatch(context.Background(), jo()) })
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestDispatch_UnknownSlugUsesRawText(t *testing.T) {
	transport := new(MockTransport)
	cfg := usecase.NotifierConfig{Enabled: true, Recipient: "owner@ironforgewelding.com"}
	notifier := usecase.NewQuoteNotifier(cfg, transport, zap.NewNop())

	sub := jo()
	sub.ServiceType = "plasma"

	transport.On("Send", mock.Anything, mock.MatchedBy(func(msg email.Message) bool {
		return assert.ObjectsAreEqual(usecase.ComposeQuoteBody(sub, "plasma"), msg.Body)
	})).Return(nil).Once()

	notifier.Dispatch(context.Background(), sub)
	transport.AssertExpectations(t)
}
