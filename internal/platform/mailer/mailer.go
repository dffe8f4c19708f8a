// Package mailer delivers OTP mail. Production uses SMTP; development and
// tests use the log-only implementation.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Mailer sends a single plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTP sends mail through a configured relay.
type SMTP struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTP builds an SMTP mailer. Auth is optional for relays that allow
// unauthenticated submission inside the network.
func NewSMTP(host, port, from, username, password string) *SMTP {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTP{
		addr: host + ":" + port,
		from: from,
		auth: auth,
	}
}

func (m *SMTP) Send(_ context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// Log writes mail to the log instead of delivering it.
type Log struct {
	Logger *slog.Logger
}

func (m *Log) Send(ctx context.Context, to, subject, body string) error {
	m.Logger.InfoContext(ctx, "mail (log only)",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
