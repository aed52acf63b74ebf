package client

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a mutation targets an id the backend does not
// recognize.
var ErrNotFound = errors.New("review not found")

// NetworkError wraps a transport-level failure: the backend was never
// reached, or the connection died mid-flight.
type NetworkError struct {
	Op    string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// BackendError means the backend was reached but answered with a non-2xx
// status.
type BackendError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: backend returned %d", e.Op, e.StatusCode)
}
