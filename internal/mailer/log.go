// Package mailer delivers digest emails over SMTP, the Resend and Postmark
// APIs, or to the log.
package mailer

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobdigest/internal/model"
)

// Ensure LogMailer implements model.Mailer.
var _ model.Mailer = (*LogMailer)(nil)

// LogMailer writes outgoing emails to the given logger instead of sending them.
type LogMailer struct {
	to     []string
	logger *slog.Logger
}

// NewLogMailer returns a mailer that logs each email via slog.
func NewLogMailer(to []string, logger *slog.Logger) *LogMailer {
	return &LogMailer{to: to, logger: logger}
}

// Send logs the subject, recipients and body size. It fails only on an
// invalid email.
func (m *LogMailer) Send(_ context.Context, email model.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	m.logger.Info("email",
		"subject", email.Subject,
		"to", m.to,
		"html", email.HTML,
		"bytes", len(email.Body),
	)
	m.logger.Debug("email body", "body", email.Body)
	return nil
}
