package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amishk599/jobdigest/internal/model"
)

func okResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
}

func makeTestServer(t *testing.T, statusCode int, body any) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

func TestComplete_Success(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, okResponse("[1] Curator at M+ — Exhibitions"))

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", "list jobs", client)
	got, err := provider.Complete(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "[1] Curator at M+ — Exhibitions" {
		t.Errorf("got %q", got)
	}
}

func TestComplete_HTTPError(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusInternalServerError, map[string]string{"error": "server error"})

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", "p", client)
	_, err := provider.Complete(context.Background())

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected HTTPError 500, got %v", err)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, map[string]any{"choices": []any{}})

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", "p", client)
	if _, err := provider.Complete(context.Background()); err == nil {
		t.Fatal("expected error when LLM returns no choices")
	}
}

func TestComplete_ErrorObject(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, map[string]any{
		"error": map[string]string{"message": "model not found", "type": "invalid_request_error"},
	})

	provider := NewOpenAIProvider(srv.URL, "k", "m", "p", client)
	if _, err := provider.Complete(context.Background()); err == nil {
		t.Fatal("expected error for error object")
	}
}

func TestComplete_SendsRequest(t *testing.T) {
	var gotReq chatRequest
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(okResponse("ok"))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL+"/api/v1/", "my-secret-key", "openpipe:job-digest", "list jobs", srv.Client())
	if _, err := provider.Complete(context.Background()); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if gotAuth != "Bearer my-secret-key" {
		t.Errorf("Authorization header = %q", gotAuth)
	}
	if gotPath != "/api/v1/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.Model != "openpipe:job-digest" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "list jobs" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if provider.Prompt() != "list jobs" {
		t.Errorf("Prompt() = %q", provider.Prompt())
	}
}
