package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/amishk599/jobdigest/internal/model"
)

// Limiter enforces a minimum delay between consecutive outbound calls.
type Limiter struct {
	lim      *rate.Limiter
	minDelay time.Duration
}

// NewLimiter creates a limiter allowing one call per minDelay.
// A zero or negative minDelay disables throttling.
func NewLimiter(minDelay time.Duration) *Limiter {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &Limiter{
		lim:      rate.NewLimiter(limit, 1),
		minDelay: minDelay,
	}
}

// Wait blocks until the next call is allowed.
// Returns an error if the context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.lim.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait (min_delay %v): %w", l.minDelay, err)
	}
	return nil
}

// RateLimitedSearcher is a decorator that throttles calls to the wrapped Searcher.
type RateLimitedSearcher struct {
	inner   model.Searcher
	limiter *Limiter
}

// NewRateLimitedSearcher wraps a Searcher with the given limiter.
// Searchers hitting the same provider should share one limiter.
func NewRateLimitedSearcher(inner model.Searcher, limiter *Limiter) *RateLimitedSearcher {
	return &RateLimitedSearcher{inner: inner, limiter: limiter}
}

// Search waits for the limiter, then delegates.
func (s *RateLimitedSearcher) Search(ctx context.Context, query string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.Search(ctx, query)
}
