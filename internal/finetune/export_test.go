package finetune

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/amishk599/jobdigest/internal/model"
)

func lines(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = "[1] Curator at M+ — Exhibitions"
	}
	return strings.Join(out, "\n")
}

func TestExport_FiltersByLineCount(t *testing.T) {
	entries := []model.CompletionEntry{
		{Prompt: "p", Completion: lines(2)},
		{Prompt: "p", Completion: lines(3)},
		{Prompt: "p", Completion: lines(12)},
		{Prompt: "p", Completion: lines(13)},
	}

	var buf bytes.Buffer
	n, err := Export(&buf, entries, DefaultMinLines, DefaultMaxLines)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if n != 2 {
		t.Errorf("wrote %d examples, want 2", n)
	}
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Errorf("got %d output lines, want 2", got)
	}
}

func TestExport_Format(t *testing.T) {
	entries := []model.CompletionEntry{{
		Prompt:     "  List jobs in 香港  ",
		Completion: "\n[1] A at B — C <new>\n[2] D\n[3] E\n\n",
	}}

	var buf bytes.Buffer
	if _, err := Export(&buf, entries, 3, 12); err != nil {
		t.Fatalf("Export: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "香港") || !strings.Contains(out, "<new>") || !strings.Contains(out, "—") {
		t.Errorf("non-ASCII and markup should be written verbatim: %s", out)
	}

	var got example
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("messages = %+v", got.Messages)
	}
	if got.Messages[0].Role != "user" || got.Messages[0].Content != "List jobs in 香港" {
		t.Errorf("user message = %+v", got.Messages[0])
	}
	if got.Messages[1].Role != "assistant" || got.Messages[1].Content != "[1] A at B — C <new>\n[2] D\n[3] E" {
		t.Errorf("assistant message = %+v", got.Messages[1])
	}
}

func TestExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	n, err := Export(&buf, nil, 3, 12)
	if err != nil || n != 0 || buf.Len() != 0 {
		t.Errorf("Export(nil) = %d, %v, %q", n, err, buf.String())
	}
}

func TestReadLog(t *testing.T) {
	log := `{"prompt": "p1", "completion": "c1"}

{"prompt": "p2", "completion": "c2\nc3"}
`
	entries, err := ReadLog(strings.NewReader(log))
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(entries) != 2 || entries[1].Completion != "c2\nc3" {
		t.Errorf("entries = %+v", entries)
	}

	if _, err := ReadLog(strings.NewReader("{broken")); err == nil {
		t.Error("expected error for malformed line")
	}
}
