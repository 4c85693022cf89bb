package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const ddgPage = `<html><body>
<div class="results">
  <div class="result">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fjobs.example.hk%2Fcurator%3Fref%3D1&amp;rut=abc">Curator - Example</a>
    </h2>
  </div>
  <div class="result">
    <a class="result__a" href="https://second.example">Second</a>
  </div>
</div>
</body></html>`

func TestDuckDuckGoSearch_UnwrapsRedirect(t *testing.T) {
	var gotQ, gotRegion, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		gotRegion = r.URL.Query().Get("kl")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(ddgPage))
	}))
	defer srv.Close()

	d := NewDuckDuckGoSearcher(srv.URL, "hk-tzh", srv.Client())
	got, err := d.Search(context.Background(), "Curator Hong Kong job")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://jobs.example.hk/curator?ref=1" {
		t.Errorf("url = %q", got)
	}
	if gotQ != "Curator Hong Kong job" || gotRegion != "hk-tzh" {
		t.Errorf("q = %q, kl = %q", gotQ, gotRegion)
	}
	if gotUA == "" {
		t.Error("expected a User-Agent header")
	}
}

func TestDuckDuckGoSearch_DirectLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a class="result__a" href="https://direct.example/job">x</a>`))
	}))
	defer srv.Close()

	d := NewDuckDuckGoSearcher(srv.URL, "", srv.Client())
	got, err := d.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://direct.example/job" {
		t.Errorf("url = %q", got)
	}
}

func TestDuckDuckGoSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="no-results">No results.</div></body></html>`))
	}))
	defer srv.Close()

	d := NewDuckDuckGoSearcher(srv.URL, "", srv.Client())
	if _, err := d.Search(context.Background(), "q"); !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestDuckDuckGoSearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	d := NewDuckDuckGoSearcher(srv.URL, "", srv.Client())
	if _, err := d.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected error on 403")
	}
}
