package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// EmailProvider sends a single transactional email.
type EmailProvider interface {
	SendEmail(to, subject, body string) error
}

// EmailQueue hands an email off for asynchronous delivery so request paths
// never block on SMTP.
type EmailQueue interface {
	Enqueue(to, subject, body string) error
}

// SMTPEmailProvider delivers mail over plain SMTP with auth.
type SMTPEmailProvider struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPEmailProvider creates an SMTP-backed EmailProvider.
func NewSMTPEmailProvider(host string, port int, username, password, from string) *SMTPEmailProvider {
	return &SMTPEmailProvider{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// SendEmail sends an email to the specified address.
func (p *SMTPEmailProvider) SendEmail(to, subject, body string) error {
	if to == "" || !strings.Contains(to, "@") {
		return fmt.Errorf("invalid email address: %q", to)
	}

	msg := strings.Join([]string{
		"From: " + p.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", p.host, p.port)
	auth := smtp.PlainAuth("", p.username, p.password, p.host)
	if err := smtp.SendMail(addr, auth, p.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// LogEmailProvider logs instead of sending. Used in development and tests.
type LogEmailProvider struct{}

func (LogEmailProvider) SendEmail(to, subject, body string) error {
	zap.L().Info("Email sent (log provider)",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
