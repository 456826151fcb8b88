package authapi

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	gomail "github.com/wneessen/go-mail"
)

// Mailer delivers password-reset emails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
}

// NoopMailer is the default mailer. It drops messages silently, which keeps
// development setups working without an SMTP server.
type NoopMailer struct{}

func (NoopMailer) SendPasswordReset(_ context.Context, _, _ string) error { return nil }

// SMTPConfig carries SMTP delivery settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// LoadSMTPConfigFromEnv reads SMTP settings. An empty host means SMTP is not
// configured and the caller should fall back to NoopMailer.
func LoadSMTPConfigFromEnv() SMTPConfig {
	port := 587
	if v := strings.TrimSpace(os.Getenv("NOTEHUB_SMTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			port = n
		}
	}
	return SMTPConfig{
		Host:     strings.TrimSpace(os.Getenv("NOTEHUB_SMTP_HOST")),
		Port:     port,
		Username: strings.TrimSpace(os.Getenv("NOTEHUB_SMTP_USERNAME")),
		Password: os.Getenv("NOTEHUB_SMTP_PASSWORD"),
		From:     strings.TrimSpace(os.Getenv("NOTEHUB_SMTP_FROM")),
	}
}

// SMTPMailer sends reset emails through an SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer validates cfg and constructs an SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("authapi: smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("authapi: smtp from address is required")
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// SendPasswordReset delivers the reset link to the recipient. The connection
// is dialed per message; reset volume does not justify a held-open client.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("authapi: mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("authapi: mail to: %w", err)
	}
	msg.Subject("Reset your password")
	msg.SetBodyString(gomail.TypeTextPlain,
		"We received a request to reset your password.\n\n"+
			"Follow this link to choose a new one (valid for a short time):\n\n"+
			resetLink+"\n\n"+
			"If you did not request this, you can ignore this message.\n")

	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
	}
	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("authapi: smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("authapi: send reset email: %w", err)
	}
	return nil
}
