// Package digest runs one end-to-end digest: completion, parse, enrich,
// render, then persist and deliver.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/jobdigest/internal/completion"
	"github.com/amishk599/jobdigest/internal/model"
)

// Parser splits raw completion text into records.
type Parser interface {
	ParseWithStats(text string) ([]model.JobRecord, int)
}

// Enricher fills in missing record links.
type Enricher interface {
	Enrich(ctx context.Context, records []model.JobRecord) []model.JobRecord
}

// Assembler renders records into a complete HTML document.
type Assembler interface {
	AssembleAt(records []model.JobRecord, at time.Time) (string, error)
}

// ArtifactWriter saves the rendered document somewhere a human can open it.
type ArtifactWriter interface {
	Write(doc string) error
}

// Options wires a Builder. Store, Writer and Mailer may be nil.
type Options struct {
	Source    completion.Source
	Parser    Parser
	Enricher  Enricher
	Assembler Assembler
	Store     model.DigestStore
	Writer    ArtifactWriter
	Mailer    model.Mailer
	Subject   string
	Logger    *slog.Logger
	Now       func() time.Time
}

// Builder owns the full digest pipeline.
type Builder struct {
	source    completion.Source
	parser    Parser
	enricher  Enricher
	assembler Assembler
	store     model.DigestStore
	writer    ArtifactWriter
	mailer    model.Mailer
	subject   string
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Builder from opts.
func New(opts Options) *Builder {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Builder{
		source:    opts.Source,
		parser:    opts.Parser,
		enricher:  opts.Enricher,
		assembler: opts.Assembler,
		store:     opts.Store,
		writer:    opts.Writer,
		mailer:    opts.Mailer,
		subject:   opts.Subject,
		logger:    opts.Logger,
		now:       now,
	}
}

// Build fetches completion text and turns it into a Digest. Only a failed
// completion or template error is returned; bad lines and failed searches
// degrade the digest instead.
func (b *Builder) Build(ctx context.Context) (model.Digest, error) {
	text, err := b.source.Complete(ctx)
	if err != nil {
		return model.Digest{}, fmt.Errorf("complete: %w", err)
	}
	b.logCompletion(text)

	records, skipped := b.parser.ParseWithStats(text)
	enriched := b.enricher.Enrich(ctx, records)

	at := b.now()
	doc, err := b.assembler.AssembleAt(enriched, at)
	if err != nil {
		return model.Digest{}, fmt.Errorf("assemble: %w", err)
	}

	b.logger.Info("built digest",
		"records", len(enriched),
		"skipped", skipped,
		"bytes", len(doc),
	)

	return model.Digest{
		GeneratedAt: at,
		Records:     enriched,
		HTML:        doc,
		Skipped:     skipped,
	}, nil
}

// Deliver emails the digest document. Failures are returned, never retried.
func (b *Builder) Deliver(ctx context.Context, d model.Digest) error {
	if b.mailer == nil {
		return fmt.Errorf("send digest: no mailer configured")
	}
	err := b.mailer.Send(ctx, model.Email{
		Subject: b.subject,
		Body:    d.HTML,
		HTML:    true,
	})
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

// Preview builds the digest and writes it to the artifact writer only.
func (b *Builder) Preview(ctx context.Context) (model.Digest, error) {
	d, err := b.Build(ctx)
	if err != nil {
		return model.Digest{}, err
	}
	b.writeArtifact(d)
	return d, nil
}

// Run builds, writes, stores and delivers one digest. Write and store
// failures are logged and do not prevent delivery; the returned error
// reflects only the build and the send.
func (b *Builder) Run(ctx context.Context) (model.Digest, error) {
	d, err := b.Build(ctx)
	if err != nil {
		return model.Digest{}, err
	}

	b.writeArtifact(d)
	id, saved := b.saveDigest(d)

	if err := b.Deliver(ctx, d); err != nil {
		return d, err
	}

	if saved {
		if err := b.store.MarkDelivered(id); err != nil {
			b.logger.Error("marking digest delivered failed", "id", id, "error", err)
		}
	}
	b.logger.Info("digest delivered", "records", len(d.Records), "subject", b.subject)
	return d, nil
}

func (b *Builder) writeArtifact(d model.Digest) {
	if b.writer == nil {
		return
	}
	if err := b.writer.Write(d.HTML); err != nil {
		b.logger.Error("writing digest file failed", "error", err)
	}
}

func (b *Builder) saveDigest(d model.Digest) (int64, bool) {
	if b.store == nil {
		return 0, false
	}
	id, err := b.store.SaveDigest(d)
	if err != nil {
		b.logger.Error("saving digest failed", "error", err)
		return 0, false
	}
	return id, true
}

// logCompletion records the prompt/completion pair for later fine-tuning
// when the source exposes its prompt.
func (b *Builder) logCompletion(text string) {
	p, ok := b.source.(completion.Prompter)
	if !ok || b.store == nil {
		return
	}
	err := b.store.SaveCompletion(model.CompletionEntry{
		Prompt:     p.Prompt(),
		Completion: text,
		CreatedAt:  b.now(),
	})
	if err != nil {
		b.logger.Error("logging completion failed", "error", err)
	}
}
