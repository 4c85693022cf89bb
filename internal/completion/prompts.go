package completion

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"
)

//go:embed prompts/job_digest.md
var jobDigestPromptRaw string

// JobDigestTemplate is the parsed default prompt template.
// Parsed once at package init; reused on every run.
var JobDigestTemplate = template.Must(template.New("job_digest").Parse(jobDigestPromptRaw))

// PromptData fills the prompt template.
type PromptData struct {
	Focus    string // e.g. "experimental media, digital culture, and XR"
	Locality string // e.g. "Hong Kong"
	MinJobs  int
	MaxJobs  int
}

// LoadTemplate parses the prompt template at path, or returns
// JobDigestTemplate when path is empty.
func LoadTemplate(path string) (*template.Template, error) {
	if path == "" {
		return JobDigestTemplate, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt template: %w", err)
	}
	tmpl, err := template.New("custom_prompt").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse prompt template %s: %w", path, err)
	}
	return tmpl, nil
}

// RenderPrompt executes tmpl with data.
func RenderPrompt(tmpl *template.Template, data PromptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
