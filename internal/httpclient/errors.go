package httpclient

import (
	"errors"
	"fmt"
)

// Error types for the httpclient package.
var (
	// ErrNotFound is returned for HTTP 404. Never retried; callers decide
	// whether it means deleted content or a broken listing.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned for HTTP 429 after retries are exhausted.
	ErrRateLimited = errors.New("rate limited by upstream")

	// ErrTooManyRedirects is returned when the redirect bound is exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// StatusError reports a non-retryable-classified HTTP failure status.
type StatusError struct {
	StatusCode int
	URL        string
}

// Error returns the error message.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}
