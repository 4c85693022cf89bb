// Package finetune turns logged completions into a chat-format training set.
package finetune

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/amishk599/jobdigest/internal/model"
)

// Default completion length bounds, in lines.
const (
	DefaultMinLines = 3
	DefaultMaxLines = 12
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type example struct {
	Messages []message `json:"messages"`
}

// Export writes one {"messages": [user, assistant]} object per line for
// every entry whose trimmed completion has between minLines and maxLines
// lines inclusive. It returns the number of examples written.
func Export(w io.Writer, entries []model.CompletionEntry, minLines, maxLines int) (int, error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	written := 0
	for _, e := range entries {
		prompt := strings.TrimSpace(e.Prompt)
		completion := strings.TrimSpace(e.Completion)

		n := len(strings.Split(completion, "\n"))
		if n < minLines || n > maxLines {
			continue
		}

		err := enc.Encode(example{Messages: []message{
			{Role: "user", Content: prompt},
			{Role: "assistant", Content: completion},
		}})
		if err != nil {
			return written, fmt.Errorf("write example: %w", err)
		}
		written++
	}
	return written, nil
}

// logLine is one record of a {"prompt": ..., "completion": ...} JSONL log.
type logLine struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

// ReadLog parses a JSONL completion log. Blank lines are ignored.
func ReadLog(r io.Reader) ([]model.CompletionEntry, error) {
	var entries []model.CompletionEntry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var l logLine
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", lineNo, err)
		}
		entries = append(entries, model.CompletionEntry{Prompt: l.Prompt, Completion: l.Completion})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return entries, nil
}
