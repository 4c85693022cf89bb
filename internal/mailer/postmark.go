package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mrz1836/postmark"

	"github.com/amishk599/jobdigest/internal/model"
)

// Ensure PostmarkMailer implements model.Mailer.
var _ model.Mailer = (*PostmarkMailer)(nil)

const postmarkTag = "job-digest"

// PostmarkMailer sends email through Postmark's transactional API.
type PostmarkMailer struct {
	client *postmark.Client
	from   string
	to     []string
	logger *slog.Logger
}

// NewPostmarkMailer returns a mailer using the given server and account tokens.
func NewPostmarkMailer(serverToken, accountToken, from string, to []string, logger *slog.Logger) (*PostmarkMailer, error) {
	if len(to) == 0 {
		return nil, model.ErrNoRecipient
	}
	if serverToken == "" {
		return nil, fmt.Errorf("postmark: server token is required")
	}
	return &PostmarkMailer{
		client: postmark.NewClient(serverToken, accountToken),
		from:   from,
		to:     to,
		logger: logger,
	}, nil
}

// Send delivers email. A non-zero Postmark error code is returned as an error.
func (m *PostmarkMailer) Send(ctx context.Context, email model.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	msg := postmark.Email{
		From:    m.from,
		To:      strings.Join(m.to, ","),
		Subject: email.Subject,
		Tag:     postmarkTag,
	}
	if email.HTML {
		msg.HTMLBody = email.Body
	} else {
		msg.TextBody = email.Body
	}

	resp, err := m.client.SendEmail(ctx, msg)
	if err != nil {
		return fmt.Errorf("postmark: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error %d: %s", resp.ErrorCode, resp.Message)
	}
	m.logger.Info("email sent", "transport", "postmark", "id", resp.MessageID, "to", m.to)
	return nil
}
