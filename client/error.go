package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/adamwoolhether/edgar/cik"
)

// maxErrBodySize caps the amount of response body read when
// building an error for a non-2xx response.
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrNetwork wraps transport-level failures: connection, DNS, TLS,
	// timeouts and bodies that break off mid-stream.
	ErrNetwork = errors.New("network error")
	// ErrParse wraps a 2xx body that did not decode into the expected shape.
	ErrParse = errors.New("parse error")
	// ErrRequest wraps failures building a request before anything is sent.
	ErrRequest = errors.New("request error")
	// ErrIO wraps local filesystem failures while staging or extracting an archive.
	ErrIO = errors.New("io error")
	// ErrStatus is the sentinel wrapped by [APIError].
	ErrStatus = errors.New("unexpected status code")
	// ErrRateLimited is the sentinel wrapped by [RateLimitError].
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrInvalidCIK is returned before any request when a CIK cannot be formatted.
	ErrInvalidCIK = cik.ErrInvalid
)

// APIError is returned for any non-2xx response other than 429.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %d %s, body: %s", ErrStatus, e.StatusCode, e.Message, e.Body)
}

func (e *APIError) Unwrap() error {
	return ErrStatus
}

// RateLimitError is returned for a 429 response. RetryAfter is only
// meaningful when HasRetryAfter is set.
type RateLimitError struct {
	RetryAfter    time.Duration
	HasRetryAfter bool
}

func (e *RateLimitError) Error() string {
	if !e.HasRetryAfter {
		return ErrRateLimited.Error()
	}
	return fmt.Sprintf("%v: retry after %s", ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// IsTransient reports whether retrying the same request later may succeed:
// network failures, rate limiting, and 5xx responses.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrNetwork) || errors.Is(err, ErrRateLimited) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests ||
			apiErr.StatusCode == http.StatusServiceUnavailable ||
			apiErr.StatusCode >= http.StatusInternalServerError
	}

	return false
}

// IsRateLimited reports whether err came from a 429 response.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}

	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}
