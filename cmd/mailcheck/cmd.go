package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"ironforge-backend/config"
	"ironforge-backend/internal/domain"
	"ironforge-backend/internal/usecase"
	"ironforge-backend/pkg/email"

	"github.com/spf13/cobra"
)

// transportFactory is swapped in tests.
var transportFactory = email.NewTransport

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "mailcheck",
		Short:        "Verify the quote notification mail settings",
		SilenceUsage: true,
	}
	root.AddCommand(newSendCmd())
	return root
}

func newSendCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a sample quote notification",
		Long: `Loads the same environment as the API server, builds the configured
mail transport (smtp or ses) and sends one sample quote notification.

The message goes to QUOTE_RECIPIENT_EMAIL unless --to is given. The command
exits non-zero when the transport reports a failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if to != "" {
				cfg.Mail.QuoteRecipient = to
			}
			return runSend(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "Recipient override (default QUOTE_RECIPIENT_EMAIL)")
	return cmd
}

func sampleSubmission() *domain.Submission {
	return usecase.NewSubmission(map[string]string{
		domain.FieldName:        "Mail Check",
		domain.FieldEmail:       "mailcheck@ironforgewelding.com",
		domain.FieldServiceType: "fabrication",
		domain.FieldMessage:     "This is a test notification sent by mailcheck.",
	})
}

func runSend(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !cfg.Mail.Enabled {
		fmt.Fprintln(out, "note: MAIL_ENABLED is false, the server would only log submissions")
	}

	transport, err := transportFactory(ctx, cfg)
	if err != nil {
		return err
	}

	sub := sampleSubmission()
	msg := email.Message{
		To:      cfg.Mail.QuoteRecipient,
		Subject: usecase.QuoteSubject(sub),
		Body:    usecase.ComposeQuoteBody(sub, usecase.ResolveServiceLabel(sub.ServiceType)),
		ReplyTo: sub.Email,
	}

	timeout := cfg.Mail.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := transport.Send(sendCtx, msg); err != nil {
		return fmt.Errorf("%s transport failed: %w", transport.Name(), err)
	}

	fmt.Fprintf(out, "sent sample quote notification to %s via %s\n", msg.To, transport.Name())
	return nil
}
