package email

import (
	"context"
	"fmt"

	"ironforge-backend/config"
)

// Message is a single plain-text notification.
type Message struct {
	To      string
	Subject string
	Body    string
	ReplyTo string
}

// Transport delivers a Message synchronously. Send must respect ctx so a
// hung server cannot hold the request forever.
type Transport interface {
	Send(ctx context.Context, msg Message) error
	// Name is a short label used in logs and metrics ("smtp", "ses").
	Name() string
}

// NewTransport builds the transport selected by MAIL_TRANSPORT.
func NewTransport(ctx context.Context, cfg *config.Config) (Transport, error) {
	switch cfg.Mail.Transport {
	case config.TransportSES:
		t, err := NewSESTransport(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create SES transport: %w", err)
		}
		return t, nil
	case config.TransportSMTP, "":
		return NewSMTPTransport(cfg.Mail), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Mail.Transport)
	}
}
