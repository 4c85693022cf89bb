// Package completion obtains the raw job-listing text from a language model
// or another text source.
package completion

import "context"

// Source returns a block of job-listing text.
type Source interface {
	Complete(ctx context.Context) (string, error)
}

// Prompter is implemented by sources that send a prompt, so callers can log
// the prompt alongside the completion.
type Prompter interface {
	Prompt() string
}
