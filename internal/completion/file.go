package completion

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads completion text from a file, for offline runs and replays.
type FileSource struct {
	path string
}

// NewFileSource returns a source backed by the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Complete returns the file contents.
func (f *FileSource) Complete(_ context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("read completion file: %w", err)
	}
	return string(data), nil
}

// StaticSource returns fixed text. Useful for tests and test mail.
type StaticSource string

// Complete returns the text.
func (s StaticSource) Complete(_ context.Context) (string, error) {
	return string(s), nil
}
