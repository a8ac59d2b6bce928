package dispatch

import (
	"bytes"
	"context"
	"diagform/internal/model"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// ErrNoRecipients is returned when an envelope has nobody to deliver to
var ErrNoRecipients = errors.New("envelope has no recipients")

// Mailer delivers assembled envelopes
type Mailer interface {
	Send(ctx context.Context, env model.Envelope) error
}

// SMTPConfig holds the SMTP relay settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPMailer sends envelopes through an authenticated STARTTLS relay
type SMTPMailer struct {
	cfg    SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer creates a mailer for the given relay
func NewSMTPMailer(cfg SMTPConfig, logger *zap.Logger) *SMTPMailer {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send dials the relay and delivers one envelope
func (m *SMTPMailer) Send(ctx context.Context, env model.Envelope) error {
	msg, err := buildMessage(env)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(m.cfg.Timeout),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send %s email: %w", env.Kind, err)
	}
	m.logger.Info("email sent",
		zap.String("kind", string(env.Kind)),
		zap.Int("recipients", len(env.To)),
		zap.Int("attachments", len(env.Attachments)),
	)
	return nil
}

func buildMessage(env model.Envelope) (*mail.Msg, error) {
	if len(env.To) == 0 {
		return nil, ErrNoRecipients
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(env.FromName, env.From); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(env.To...); err != nil {
		return nil, fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(env.Subject)
	msg.SetBodyString(mail.TypeTextHTML, env.HTML)

	for _, att := range env.Attachments {
		err := msg.AttachReader(att.Filename, bytes.NewReader(att.Data),
			mail.WithFileContentType(mail.ContentType(att.ContentType)))
		if err != nil {
			return nil, fmt.Errorf("attach %s: %w", att.Filename, err)
		}
	}
	return msg, nil
}

// LogMailer logs envelopes instead of sending them
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer that only logs
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the envelope headers, and the body at debug level
func (m *LogMailer) Send(_ context.Context, env model.Envelope) error {
	if len(env.To) == 0 {
		return ErrNoRecipients
	}
	names := make([]string, 0, len(env.Attachments))
	for _, att := range env.Attachments {
		names = append(names, att.Filename)
	}
	m.logger.Info("email not sent, no smtp relay configured",
		zap.String("kind", string(env.Kind)),
		zap.Strings("to", env.To),
		zap.String("subject", env.Subject),
		zap.Strings("attachments", names),
	)
	m.logger.Debug("email body", zap.String("html", env.HTML))
	return nil
}
