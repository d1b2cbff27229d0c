// SPDX-License-Identifier: MIT

package census

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrInvalidInput        = errors.New("census: invalid input")
	ErrNotFound            = errors.New("census: resource not found")
	ErrForbidden           = errors.New("census: access denied (missing or invalid API key)")
	ErrUpstreamUnavailable = errors.New("census: host unreachable or transport failure")
	ErrUpstreamError       = errors.New("census: upstream internal error (5xx)")
	ErrBadResponse         = errors.New("census: invalid response format or malformed data")
	ErrTimeout             = errors.New("census: request timed out")
)

// APIError is a rich error type that wraps the sentinel errors with context.
type APIError struct {
	Sentinel error
	Dataset  string
	Status   int
	Body     string
	Err      error // nested lower-level error (e.g. net.Error)
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("census: %s: %v", e.Dataset, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}
