package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoRecipient indicates no recipient was configured.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSubject indicates an email without a subject.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoBody indicates an email without a body.
	ErrNoBody = errors.New("email must have a body")

	// ErrLocked indicates another process holds the output lock.
	ErrLocked = errors.New("output is locked by another process")
)

// HTTPError wraps an HTTP status code returned by a collaborator.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Validate checks that the email has what every transport needs.
func (e Email) Validate() error {
	if e.Subject == "" {
		return ErrNoSubject
	}
	if e.Body == "" {
		return ErrNoBody
	}
	return nil
}
