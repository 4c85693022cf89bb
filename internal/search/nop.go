package search

import (
	"context"
	"errors"
)

// ErrDisabled is returned by NopSearcher.
var ErrDisabled = errors.New("search provider disabled")

// NopSearcher never finds anything, so every link is the fallback.
type NopSearcher struct{}

// NewNopSearcher returns a NopSearcher.
func NewNopSearcher() *NopSearcher {
	return &NopSearcher{}
}

// Search always returns ErrDisabled.
func (NopSearcher) Search(_ context.Context, _ string) (string, error) {
	return "", ErrDisabled
}
