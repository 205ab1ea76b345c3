package services

import (
	"gopkg.in/gomail.v2"

	"github.com/CourageAllien/studioportal/internal/logger"
)

// Mailer sends a single notification email. Template rendering already
// happened by the time a Mailer is invoked.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a configured SMTP relay
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a new SMTP-backed mailer
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers a plain-text email
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

// NoopMailer is used when SMTP is not configured: sends are logged and
// dropped so the rest of the portal behaves normally in local setups.
type NoopMailer struct{}

// Send logs the email it would have sent
func (NoopMailer) Send(to, subject, body string) error {
	logger.WithFields(map[string]interface{}{
		"to":      to,
		"subject": subject,
	}).Debug("SMTP not configured, dropping notification email")
	return nil
}
