package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/amishk599/jobdigest/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var digestEmail = model.Email{
	Subject: "🗞️ Your Daily Job Digest (with links)",
	Body:    "<html><body><ul></ul></body></html>",
	HTML:    true,
}

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	m := NewLogMailer([]string{"a@example.com"}, logger)

	if err := m.Send(context.Background(), digestEmail); err != nil {
		t.Fatalf("Send: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "msg=email") || !strings.Contains(out, "a@example.com") {
		t.Errorf("log output = %q", out)
	}
	if strings.Contains(out, "<ul>") {
		t.Error("body should only be logged at debug level")
	}
}

func TestLogMailer_InvalidEmail(t *testing.T) {
	m := NewLogMailer(nil, discardLogger())
	if err := m.Send(context.Background(), model.Email{Body: "x"}); !errors.Is(err, model.ErrNoSubject) {
		t.Errorf("err = %v, want ErrNoSubject", err)
	}
	if err := m.Send(context.Background(), model.Email{Subject: "x"}); !errors.Is(err, model.ErrNoBody) {
		t.Errorf("err = %v, want ErrNoBody", err)
	}
}

func smtpSettings() SMTPSettings {
	return SMTPSettings{
		Host:     "127.0.0.1",
		Port:     1,
		Username: "bot@example.com",
		Password: "secret",
		From:     "bot@example.com",
		To:       []string{"a@example.com", "b@example.com"},
	}
}

func TestSMTPMailer_RequiresRecipient(t *testing.T) {
	s := smtpSettings()
	s.To = nil
	if _, err := NewSMTPMailer(s, discardLogger()); !errors.Is(err, model.ErrNoRecipient) {
		t.Errorf("err = %v, want ErrNoRecipient", err)
	}
	s = smtpSettings()
	s.From = ""
	if _, err := NewSMTPMailer(s, discardLogger()); err == nil {
		t.Error("expected error for missing sender")
	}
}

func TestSMTPMailer_Compose(t *testing.T) {
	m, err := NewSMTPMailer(smtpSettings(), discardLogger())
	if err != nil {
		t.Fatalf("NewSMTPMailer: %v", err)
	}

	var buf bytes.Buffer
	if err := m.WriteTo(&buf, digestEmail); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	msg := buf.String()
	for _, want := range []string{
		"From: bot@example.com",
		"To: a@example.com, b@example.com",
		"Content-Type: text/html; charset=UTF-8",
		"Subject: =?UTF-8?",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}

	buf.Reset()
	if err := m.WriteTo(&buf, model.Email{Subject: "test", Body: "hello"}); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if !strings.Contains(buf.String(), "Content-Type: text/plain; charset=UTF-8") {
		t.Errorf("plain message:\n%s", buf.String())
	}
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m, err := NewSMTPMailer(smtpSettings(), discardLogger())
	if err != nil {
		t.Fatalf("NewSMTPMailer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Send(ctx, digestEmail); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSMTPMailer_DialFailure(t *testing.T) {
	m, err := NewSMTPMailer(smtpSettings(), discardLogger())
	if err != nil {
		t.Fatalf("NewSMTPMailer: %v", err)
	}
	err = m.Send(context.Background(), digestEmail)
	if err == nil || !strings.Contains(err.Error(), "smtp 127.0.0.1:1") {
		t.Errorf("err = %v, want wrapped dial error", err)
	}
}

func TestResendMailer_Validation(t *testing.T) {
	if _, err := NewResendMailer("key", "bot@example.com", nil, discardLogger()); !errors.Is(err, model.ErrNoRecipient) {
		t.Errorf("err = %v, want ErrNoRecipient", err)
	}
	if _, err := NewResendMailer("", "bot@example.com", []string{"a@example.com"}, discardLogger()); err == nil {
		t.Error("expected error for missing api key")
	}
	m, err := NewResendMailer("re_test", "bot@example.com", []string{"a@example.com"}, discardLogger())
	if err != nil {
		t.Fatalf("NewResendMailer: %v", err)
	}
	if err := m.Send(context.Background(), model.Email{Subject: "s"}); !errors.Is(err, model.ErrNoBody) {
		t.Errorf("err = %v, want ErrNoBody", err)
	}
}

func TestPostmarkMailer_Validation(t *testing.T) {
	if _, err := NewPostmarkMailer("tok", "", "bot@example.com", nil, discardLogger()); !errors.Is(err, model.ErrNoRecipient) {
		t.Errorf("err = %v, want ErrNoRecipient", err)
	}
	if _, err := NewPostmarkMailer("", "", "bot@example.com", []string{"a@example.com"}, discardLogger()); err == nil {
		t.Error("expected error for missing server token")
	}
	m, err := NewPostmarkMailer("tok", "", "bot@example.com", []string{"a@example.com"}, discardLogger())
	if err != nil {
		t.Fatalf("NewPostmarkMailer: %v", err)
	}
	if err := m.Send(context.Background(), model.Email{Body: "b"}); !errors.Is(err, model.ErrNoSubject) {
		t.Errorf("err = %v, want ErrNoSubject", err)
	}
}
