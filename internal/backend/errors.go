// Package backend issues timeout-bounded, cancellable HTTP requests to the
// remote post service and normalizes transport and application failures
// into a single error type.
package backend

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a request failure.
type ErrorKind string

const (
	// KindNetwork covers connection and transport failures.
	KindNetwork ErrorKind = "network"

	// KindTimeout means the per-call timeout fired before the request completed.
	KindTimeout ErrorKind = "timeout"

	// KindHTTP means the backend answered with a non-success status.
	KindHTTP ErrorKind = "http"

	// KindParse means a success response body was expected to be JSON but was not.
	KindParse ErrorKind = "parse"

	// KindCancelled means the caller's context was cancelled, typically by
	// supersession. Never retried, and callers suppress it from user-visible
	// reporting.
	KindCancelled ErrorKind = "cancelled"
)

// RequestError is the single failure type surfaced by the Client.
type RequestError struct {
	Kind   ErrorKind
	Op     string // "GET /posts" style description of the attempted call
	Detail string // human-readable context: error body text, timeout duration
	Err    error  // underlying cause, may be nil for HTTP errors
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Detail, e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Kind)
	}
	return fmt.Sprintf("%s failed (%s)", e.Op, e.Kind)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsCancelled reports whether err is a request failure caused by external
// cancellation, so callers can tell supersession apart from a timeout or a
// genuine network failure.
func IsCancelled(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Kind == KindCancelled
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Kind == KindTimeout
}
