package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ironforge-backend/internal/domain"
	"ironforge-backend/pkg/email"
	"ironforge-backend/pkg/metrics"

	"go.uber.org/zap"
)

const defaultSendTimeout = 10 * time.Second

// NotifierConfig is the read-only slice of configuration the notifier needs.
type NotifierConfig struct {
	Enabled     bool
	Recipient   string
	SendTimeout time.Duration
}

type quoteNotifier struct {
	cfg       NotifierConfig
	transport email.Transport
	log       *zap.Logger
}

// NewQuoteNotifier returns the dispatcher for quote notifications. transport
// may be nil when cfg.Enabled is false.
func NewQuoteNotifier(cfg NotifierConfig, transport email.Transport, log *zap.Logger) domain.QuoteNotifier {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	return &quoteNotifier{
		cfg:       cfg,
		transport: transport,
		log:       log,
	}
}

// ResolveServiceLabel maps a slug to its label, or returns the raw text for
// slugs outside the catalog (including "not specified").
func ResolveServiceLabel(slug string) string {
	if label, ok := domain.ServiceLabel(slug); ok {
		return label
	}
	return slug
}

// QuoteSubject is the subject line of the notification email.
func QuoteSubject(sub *domain.Submission) string {
	return fmt.Sprintf("New Quote Request from %s", sub.Name)
}

// ComposeQuoteBody renders the plain-text notification.
func ComposeQuoteBody(sub *domain.Submission, serviceLabel string) string {
	lines := []string{
		"New quote request from the Ironforge Welding website.",
		"",
		"--- Customer Details ---",
		"Name:    " + sub.Name,
		"Email:   " + sub.Email,
		"Phone:   " + sub.Phone,
		"Service: " + serviceLabel,
		"",
		"--- Project Description ---",
		sub.Message,
		"",
		"---",
		"Reply directly to this email to respond to the customer.",
	}
	return strings.Join(lines, "\n")
}

// Dispatch emails the submission to the business, or logs it when mail is
// disabled. Transport failures are logged with the full body so nothing is
// lost; they are not retried.
func (n *quoteNotifier) Dispatch(ctx context.Context, sub *domain.Submission) {
	log := n.log.With(requestIDField(ctx))

	body := ComposeQuoteBody(sub, ResolveServiceLabel(sub.ServiceType))

	if !n.cfg.Enabled {
		log.Info("MAIL_ENABLED is false, email NOT sent", zap.String("body", body))
		metrics.Notifications.WithLabelValues(metrics.NotificationLogged).Inc()
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Mail transport panicked",
				zap.Any("panic", r),
				zap.String("customer_email", sub.Email),
				zap.String("body", body),
			)
			metrics.Notifications.WithLabelValues(metrics.NotificationFailed).Inc()
		}
	}()

	if n.transport == nil {
		log.Error("Failed to send quote notification email: no mail transport configured",
			zap.String("customer_email", sub.Email),
			zap.String("body", body),
		)
		metrics.Notifications.WithLabelValues(metrics.NotificationFailed).Inc()
		return
	}

	msg := email.Message{
		To:      n.cfg.Recipient,
		Subject: QuoteSubject(sub),
		Body:    body,
		ReplyTo: sub.Email,
	}

	// The customer hanging up must not abort delivery; only the timeout does.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.cfg.SendTimeout)
	defer cancel()

	start := time.Now()
	err := n.transport.Send(sendCtx, msg)
	metrics.MailSendDuration.WithLabelValues(n.transport.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		log.Error("Failed to send quote notification email",
			zap.String("transport", n.transport.Name()),
			zap.String("recipient", n.cfg.Recipient),
			zap.String("customer_email", sub.Email),
			zap.String("body", body),
			zap.Error(err),
		)
		metrics.Notifications.WithLabelValues(metrics.NotificationFailed).Inc()
		return
	}

	log.Info("Quote notification email sent",
		zap.String("recipient", n.cfg.Recipient),
		zap.String("customer_email", sub.Email),
	)
	metrics.Notifications.WithLabelValues(metrics.NotificationSent).Inc()
}
