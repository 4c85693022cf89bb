package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubSearcher returns a canned url or error and counts calls.
type stubSearcher struct {
	url   string
	err   error
	calls int
}

func (s *stubSearcher) Search(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.url, s.err
}

// blockingSearcher waits until its context is done.
type blockingSearcher struct{}

func (blockingSearcher) Search(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestResolve_ReturnsProviderURL(t *testing.T) {
	s := &stubSearcher{url: "https://jobs.example.com/123"}
	r := NewResolver(s, time.Second, "", discardLogger())

	got := r.Resolve(context.Background(), "XR Developer Hong Kong job")
	if got != "https://jobs.example.com/123" {
		t.Errorf("Resolve = %q, want provider url", got)
	}
	if s.calls != 1 {
		t.Errorf("expected 1 search call, got %d", s.calls)
	}
}

func TestResolve_FallbackOnError(t *testing.T) {
	r := NewResolver(&stubSearcher{err: errors.New("network down")}, time.Second, "", discardLogger())

	q := "Lecturer at ABC University Teach interactive media Hong Kong job"
	got := r.Resolve(context.Background(), q)

	want := "https://www.google.com/search?q=Lecturer%20at%20ABC%20University%20Teach%20interactive%20media%20Hong%20Kong%20job"
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolve_FallbackOnTimeout(t *testing.T) {
	r := NewResolver(blockingSearcher{}, 20*time.Millisecond, "", discardLogger())

	start := time.Now()
	got := r.Resolve(context.Background(), "Curator")
	if time.Since(start) > time.Second {
		t.Errorf("Resolve did not honor timeout")
	}
	if got != "https://www.google.com/search?q=Curator" {
		t.Errorf("Resolve = %q, want fallback", got)
	}
}

func TestResolve_FallbackOnNonWebURL(t *testing.T) {
	for _, bad := range []string{"", "ftp://example.com/x", "javascript:alert(1)", "/relative/path", "httpfoo"} {
		r := NewResolver(&stubSearcher{url: bad}, time.Second, "", discardLogger())
		got := r.Resolve(context.Background(), "q")
		if got != r.Fallback("q") {
			t.Errorf("Resolve with provider url %q = %q, want fallback", bad, got)
		}
	}
}

func TestResolve_AlwaysHTTP(t *testing.T) {
	queries := []string{"", "a&b=c", "在香港的工作", `"quoted" <tag>`, "100% remote"}
	r := NewResolver(NewNopSearcher(), time.Second, "", discardLogger())
	for _, q := range queries {
		got := r.Resolve(context.Background(), q)
		if !strings.HasPrefix(got, "http") {
			t.Errorf("Resolve(%q) = %q, want http prefix", q, got)
		}
		if !IsWebURL(got) {
			t.Errorf("Resolve(%q) = %q is not a valid web url", q, got)
		}
	}
}

func TestFallback_EncodesReservedCharacters(t *testing.T) {
	r := NewResolver(NewNopSearcher(), 0, "", discardLogger())
	got := r.Fallback("R&D <lead> 100%")
	want := "https://www.google.com/search?q=R%26D%20%3Clead%3E%20100%25"
	if got != want {
		t.Errorf("Fallback = %q, want %q", got, want)
	}
}

func TestFallback_CustomTemplate(t *testing.T) {
	r := NewResolver(NewNopSearcher(), 0, "https://duckduckgo.com/?q=%s", discardLogger())
	if got := r.Fallback("art jobs"); got != "https://duckduckgo.com/?q=art%20jobs" {
		t.Errorf("Fallback = %q", got)
	}
}
