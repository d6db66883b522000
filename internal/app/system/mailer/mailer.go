// internal/app/system/mailer/mailer.go

// Package mailer delivers transactional email (invites, reorder reminders,
// support forwards) over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is a renderable message. To is set by the caller.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers email. The SMTP implementation below is used in
// production; tests substitute a recording fake.
type Sender interface {
	Send(email Email) error
}

// SMTPConfig holds connection settings for the outbound mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// SMTPSender delivers mail through a single SMTP endpoint (Mailpit in dev,
// SES or similar in production).
type SMTPSender struct {
	cfg SMTPConfig
	log *zap.Logger
}

// NewSMTPSender creates a sender from config.
func NewSMTPSender(cfg SMTPConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: logger}
}

// Send delivers one message as multipart/alternative so clients can pick
// the text or HTML body.
func (s *SMTPSender) Send(email Email) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}

	msg := s.buildMessage(email)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{email.To}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", email.To, err)
	}
	s.log.Debug("email sent", zap.String("to", email.To), zap.String("subject", email.Subject))
	return nil
}

const mimeBoundary = "=_restok_alt_boundary"

func (s *SMTPSender) buildMessage(email Email) []byte {
	var b strings.Builder
	from := s.cfg.From
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
	}

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", email.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", email.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", mimeBoundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(email.TextBody)
	b.WriteString("\r\n")

	if email.HTMLBody != "" {
		fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(email.HTMLBody)
		b.WriteString("\r\n")
	}

	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)
	return []byte(b.String())
}
