package model

import (
	"context"
	"time"
)

// JobRecord is a single job listing parsed from completion text.
type JobRecord struct {
	Title       string // "Title" or "Title at Institution"
	Description string // may be empty
	Link        string // empty until enriched
}

// Digest is the result of one pipeline run.
type Digest struct {
	GeneratedAt time.Time
	Records     []JobRecord
	HTML        string // complete HTML document
	Skipped     int    // non-blank lines the parser dropped
}

// DigestSummary is a stored digest without its body.
type DigestSummary struct {
	ID          int64
	GeneratedAt time.Time
	RecordCount int
	Delivered   bool
}

// CompletionEntry is a logged prompt/completion pair.
type CompletionEntry struct {
	Prompt     string
	Completion string
	CreatedAt  time.Time
}

// Email is a message handed to a Mailer.
type Email struct {
	Subject string
	Body    string
	HTML    bool // Body is HTML rather than plain text
}

// Mailer delivers an email to the configured recipients.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// DigestStore persists digest history and completion logs.
type DigestStore interface {
	SaveDigest(d Digest) (int64, error)
	MarkDelivered(id int64) error
	ListDigests(limit int) ([]DigestSummary, error)
	LoadRecords(id int64) ([]JobRecord, error)
	SaveCompletion(entry CompletionEntry) error
	ListCompletions() ([]CompletionEntry, error)
}

// Searcher looks up the first result URL for a query.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}
