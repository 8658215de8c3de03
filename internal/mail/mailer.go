package mail

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/config"
)

// Mailer delivers outbound mail. Sends are best-effort; callers log
// failures and continue.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends plain-text mail over an authenticated SMTP relay.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)

	msg := fmt.Sprintf("From: %q <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, m.cfg.User, to, subject, body)

	if err := smtp.SendMail(addr, auth, m.cfg.User, []string{to}, []byte(msg)); err != nil {
		m.logger.Error("Failed to send mail", zap.String("to", to), zap.Error(err))
		return err
	}

	return nil
}

// NopMailer drops mail; used in tests and when SMTP is not configured.
type NopMailer struct{}

func (NopMailer) Send(to, subject, body string) error { return nil }
