// Package notify delivers change summaries by email over SMTP.
package notify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
	gomail "gopkg.in/gomail.v2"
)

// MailConfig holds the SMTP transport settings. It is read from the
// environment on every send, so credentials can be rotated without a
// restart. All fields are required together; an incomplete config
// disables notification for that cycle.
type MailConfig struct {
	Host       string `env:"SMTP_HOST" validate:"required"`
	Port       int    `env:"SMTP_PORT" validate:"required"`
	Username   string `env:"SMTP_USERNAME" validate:"required"`
	Password   string `env:"SMTP_PASSWORD" validate:"required"`
	Sender     string `env:"SENDER_EMAIL" validate:"required"`
	Recipients string `env:"RECIPIENTS" validate:"required"`
}

// implicitTLSPort selects SMTPS rather than a STARTTLS upgrade.
const implicitTLSPort = 465

// Mailer sends plain-text notifications. Delivery problems are logged,
// never propagated; the monitor loop continues regardless.
type Mailer struct {
	logger   *slog.Logger
	validate *validator.Validate
	send     func(cfg MailConfig, msg *gomail.Message) error
}

// NewMailer creates a Mailer logging through the given logger.
func NewMailer(logger *slog.Logger) *Mailer {
	m := &Mailer{
		logger:   logger,
		validate: validator.New(),
	}
	m.send = m.dialAndSend
	return m
}

// Notify sends subject/body to the configured recipients. Missing
// configuration or delivery failure is logged and swallowed.
func (m *Mailer) Notify(subject, body string) {
	var cfg MailConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		m.logger.Warn("mail config unreadable, skipping notification", "error", err)
		return
	}
	if err := m.validate.Struct(cfg); err != nil {
		m.logger.Warn("mail config incomplete, skipping notification", "error", err)
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.Sender)
	msg.SetHeader("To", splitRecipients(cfg.Recipients)...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.send(cfg, msg); err != nil {
		m.logger.Error("failed to send notification", "host", cfg.Host, "error", err)
		return
	}
	m.logger.Info("notification sent", "recipients", cfg.Recipients)
}

// dialAndSend delivers the message. Port 465 means implicit TLS;
// any other port upgrades with STARTTLS.
func (m *Mailer) dialAndSend(cfg MailConfig, msg *gomail.Message) error {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.Port == implicitTLSPort
	return dialer.DialAndSend(msg)
}

// splitRecipients splits the comma-separated recipient list, dropping
// empty entries.
func splitRecipients(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
