package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"ironforge-backend/config"

	"gopkg.in/gomail.v2"
)

// idleTimeout bounds the whole SMTP conversation when ctx has no deadline.
const idleTimeout = 2 * time.Minute

// SMTPTransport sends mail through an SMTP relay (Gmail, Zoho, Mailgun...).
// gomail builds the MIME message; the SMTP conversation runs on a connection
// owned here so ctx can cut it off. STARTTLS is used whenever the server
// offers it.
type SMTPTransport struct {
	host      string
	addr      string
	username  string
	password  string
	ssl       bool
	tlsConfig *tls.Config
	from      string
}

func NewSMTPTransport(cfg config.MailConfig) *SMTPTransport {
	return &SMTPTransport{
		host:     cfg.Server,
		addr:     net.JoinHostPort(cfg.Server, strconv.Itoa(cfg.Port)),
		username: cfg.Username,
		password: cfg.Password,
		ssl:      cfg.UseSSL,
		tlsConfig: &tls.Config{
			ServerName: cfg.Server,
			MinVersion: tls.VersionTLS12,
		},
		from: cfg.DefaultSender,
	}
}

func (t *SMTPTransport) Name() string {
	return "smtp"
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", t.from)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := t.send(ctx, m, msg.To); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w (%v)", ctxErr, err)
		}
		return fmt.Errorf("failed to send email via %s: %w", t.addr, err)
	}
	return nil
}

func (t *SMTPTransport) send(ctx context.Context, m *gomail.Message, to string) error {
	dialer := &net.Dialer{Timeout: 30 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	// Closing the connection unblocks pending reads and writes once ctx is done.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	if _, ok := ctx.Deadline(); !ok {
		_ = conn.SetDeadline(time.Now().Add(idleTimeout))
	}

	if t.ssl {
		conn = tls.Client(conn, t.tlsConfig)
	}

	c, err := smtp.NewClient(conn, t.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("greeting: %w", err)
	}
	defer c.Close()

	if !t.ssl {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(t.tlsConfig); err != nil {
				return fmt.Errorf("STARTTLS: %w", err)
			}
		}
	}
	if t.username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", t.username, t.password, t.host)); err != nil {
				return fmt.Errorf("AUTH: %w", err)
			}
		}
	}

	if err := c.Mail(t.from); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := m.WriteTo(w); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("DATA close: %w", err)
	}
	return c.Quit()
}
