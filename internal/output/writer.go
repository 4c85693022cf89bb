// Package output writes the rendered digest document to disk.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/amishk599/jobdigest/internal/model"
)

// Writer replaces the file at Path with each new document. Concurrent runs
// are serialised through a sibling ".lock" file; a run that cannot take the
// lock fails with model.ErrLocked instead of waiting.
type Writer struct {
	path string
}

// NewWriter returns a writer for path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the destination file.
func (w *Writer) Path() string {
	return w.path
}

// Write atomically replaces the destination with doc.
func (w *Writer) Write(doc string) (err error) {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	lock := flock.New(w.path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock output: %w", err)
	}
	if !locked {
		return fmt.Errorf("%s: %w", w.path, model.ErrLocked)
	}
	defer func() {
		if uerr := lock.Unlock(); uerr != nil {
			err = errors.Join(err, fmt.Errorf("unlock output: %w", uerr))
		}
	}()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace output: %w", err)
	}
	return nil
}
