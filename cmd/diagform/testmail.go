package main

import (
	"context"
	"diagform/internal/dispatch"
	"diagform/internal/model"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var testmailTo string

var testmailCmd = &cobra.Command{
	Use:   "testmail",
	Short: "Send a test email through the configured SMTP relay",
	RunE:  runTestmail,
}

func init() {
	testmailCmd.Flags().StringVar(&testmailTo, "to", "", "Recipient address (defaults to TEST_RECIPIENT)")
	rootCmd.AddCommand(testmailCmd)
}

func runTestmail(cmd *cobra.Command, _ []string) error {
	to := testmailTo
	if to == "" {
		to = os.Getenv("TEST_RECIPIENT")
	}
	if to == "" {
		return errors.New("no recipient: use --to or set TEST_RECIPIENT")
	}
	if !cfg.MailEnabled() {
		return errors.New("SMTP is not configured: set OUTLOOK_USER and OUTLOOK_PASS")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	settings := cfg.DispatchSettings()
	env := model.Envelope{
		Kind:     model.EnvelopeAdmin,
		FromName: settings.FromName,
		From:     settings.FromAddress,
		To:       []string{to},
		Subject:  "✅ SMTP test from diagform",
		HTML:     fmt.Sprintf("<p>Test message sent through %s:%d.</p>", cfg.SMTPHost, cfg.SMTPPort),
	}
	if err := dispatch.NewSMTPMailer(cfg.SMTP(), logger).Send(ctx, env); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "test email sent to %s\n", to)
	return nil
}
