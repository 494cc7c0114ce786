package types

import (
	"errors"
	"fmt"
)

var (
	// Parameter errors, surfaced before any fetch
	ErrEmptyQuery        = errors.New("empty search query")
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidSafeSearch = errors.New("invalid safesearch value")
	ErrInvalidTimeLimit  = errors.New("invalid timelimit value")

	// Dispatch errors
	ErrUnknownBackend    = errors.New("unknown backend")
	ErrAllBackendsFailed = errors.New("all backends failed")
)

// BackendError wraps a failure from an explicitly selected backend.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
