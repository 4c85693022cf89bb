package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v3"

	"github.com/amishk599/jobdigest/internal/model"
)

// Ensure ResendMailer implements model.Mailer.
var _ model.Mailer = (*ResendMailer)(nil)

// ResendMailer sends email through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
	to     []string
	logger *slog.Logger
}

// NewResendMailer returns a mailer authenticated with apiKey.
func NewResendMailer(apiKey, from string, to []string, logger *slog.Logger) (*ResendMailer, error) {
	if len(to) == 0 {
		return nil, model.ErrNoRecipient
	}
	if apiKey == "" {
		return nil, fmt.Errorf("resend: api key is required")
	}
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
		logger: logger,
	}, nil
}

// Send delivers email and logs the Resend message id.
func (m *ResendMailer) Send(ctx context.Context, email model.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	req := &resend.SendEmailRequest{
		From:    m.from,
		To:      m.to,
		Subject: email.Subject,
	}
	if email.HTML {
		req.Html = email.Body
	} else {
		req.Text = email.Body
	}

	sent, err := m.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	m.logger.Info("email sent", "transport", "resend", "id", sent.Id, "to", m.to)
	return nil
}
