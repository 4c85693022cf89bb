// Package search resolves job queries to a single URL, falling back to a
// constructed search link when the provider cannot answer.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/amishk599/jobdigest/internal/model"
)

// DefaultFallbackURL is the search page used when the provider fails.
// The single %s receives the percent-encoded query.
const DefaultFallbackURL = "https://www.google.com/search?q=%s"

// Resolver returns one URL per query. It never fails: any provider error
// yields the deterministic fallback link.
type Resolver struct {
	searcher    model.Searcher
	timeout     time.Duration
	fallbackURL string
	logger      *slog.Logger
}

// NewResolver creates a resolver that gives searcher at most timeout per query.
// An empty fallbackURL selects DefaultFallbackURL.
func NewResolver(searcher model.Searcher, timeout time.Duration, fallbackURL string, logger *slog.Logger) *Resolver {
	if fallbackURL == "" {
		fallbackURL = DefaultFallbackURL
	}
	return &Resolver{
		searcher:    searcher,
		timeout:     timeout,
		fallbackURL: fallbackURL,
		logger:      logger,
	}
}

// Resolve returns the provider's first http(s) result for query, or the fallback.
func (r *Resolver) Resolve(ctx context.Context, query string) string {
	if link, ok := r.primary(ctx, query); ok {
		return link
	}
	r.logger.Info("falling back to search link", "query", query)
	return r.Fallback(query)
}

// primary asks the provider once. ok is false on any failure.
func (r *Resolver) primary(ctx context.Context, query string) (string, bool) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	link, err := r.searcher.Search(ctx, query)
	if err != nil {
		r.logger.Warn("search failed", "query", query, "error", err)
		return "", false
	}
	if !IsWebURL(link) {
		r.logger.Warn("search returned no usable url", "query", query, "url", link)
		return "", false
	}
	return link, true
}

// Fallback builds the deterministic search link for query.
func (r *Resolver) Fallback(query string) string {
	return fmt.Sprintf(r.fallbackURL, percentEncode(query))
}

// percentEncode escapes query for a URL query value, encoding spaces as %20.
func percentEncode(query string) string {
	return strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

// IsWebURL reports whether s is an absolute http or https URL.
func IsWebURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
