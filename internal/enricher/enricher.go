// Package enricher attaches a resolved link to every parsed job record.
package enricher

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amishk599/jobdigest/internal/model"
)

// LinkResolver returns a usable URL for any query.
type LinkResolver interface {
	Resolve(ctx context.Context, query string) string
}

// Enricher fills in missing links one record at a time.
type Enricher struct {
	resolver LinkResolver
	locality string // e.g. "Hong Kong"
	logger   *slog.Logger
}

// New creates an Enricher that appends locality to every search query.
func New(resolver LinkResolver, locality string, logger *slog.Logger) *Enricher {
	return &Enricher{resolver: resolver, locality: locality, logger: logger}
}

// Enrich returns a copy of records with every empty Link resolved.
// Records that already carry a link are passed through unchanged.
func (e *Enricher) Enrich(ctx context.Context, records []model.JobRecord) []model.JobRecord {
	out := make([]model.JobRecord, len(records))
	resolved := 0

	for i, rec := range records {
		if rec.Link == "" {
			rec.Link = e.resolver.Resolve(ctx, e.Query(rec))
			resolved++
		}
		out[i] = rec
	}

	e.logger.Debug("enriched records", "total", len(records), "resolved", resolved)
	return out
}

// Query builds the search query for a record.
func (e *Enricher) Query(rec model.JobRecord) string {
	parts := []string{rec.Title, rec.Description, e.locality, "job"}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
