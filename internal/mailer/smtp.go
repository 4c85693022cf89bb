package mailer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/amishk599/jobdigest/internal/model"
)

// Ensure SMTPMailer implements model.Mailer.
var _ model.Mailer = (*SMTPMailer)(nil)

// SMTPSettings describes an authenticated SMTP relay.
type SMTPSettings struct {
	Host     string
	Port     int // 465 uses implicit TLS, anything else STARTTLS when offered
	Username string
	Password string
	From     string
	To       []string
}

// SMTPMailer sends email through an SMTP relay such as Gmail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	to     []string
	logger *slog.Logger
}

// NewSMTPMailer returns a mailer for the given relay. It fails when no
// recipient is configured.
func NewSMTPMailer(s SMTPSettings, logger *slog.Logger) (*SMTPMailer, error) {
	if len(s.To) == 0 {
		return nil, model.ErrNoRecipient
	}
	if s.From == "" {
		return nil, fmt.Errorf("smtp: sender address is required")
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(s.Host, s.Port, s.Username, s.Password),
		from:   s.From,
		to:     s.To,
		logger: logger,
	}, nil
}

// Compose builds the MIME message for email.
func (m *SMTPMailer) Compose(email model.Email) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to...)
	msg.SetHeader("Subject", email.Subject)
	if email.HTML {
		msg.SetBody("text/html", email.Body)
	} else {
		msg.SetBody("text/plain", email.Body)
	}
	return msg
}

// WriteTo writes the composed message to w without sending it.
func (m *SMTPMailer) WriteTo(w io.Writer, email model.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	if _, err := m.Compose(email).WriteTo(w); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Send dials the relay, authenticates and delivers email. The SMTP session
// itself is not cancellable; ctx is checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, email model.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(m.Compose(email)); err != nil {
		return fmt.Errorf("smtp %s:%d: %w", m.dialer.Host, m.dialer.Port, err)
	}
	m.logger.Info("email sent", "transport", "smtp", "to", m.to, "subject", email.Subject)
	return nil
}
