package graphql

import (
	"errors"
	"fmt"
	"time"
)

// ErrRateLimited is matched by errors.Is for a RateLimitError.
var ErrRateLimited = errors.New("graphql: rate limit retries exhausted")

// RateLimitError reports that an endpoint kept answering 429 until the retry
// budget ran out.
type RateLimitError struct {
	Endpoint  string
	Operation string
	Attempts  int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("graphql %s at %s: rate limited after %d attempts", e.Operation, e.Endpoint, e.Attempts)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// StatusError is a non-429, non-2xx HTTP answer. It is never retried.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("graphql endpoint %s returned %s", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("graphql endpoint %s returned %s: %s", e.Endpoint, e.Status, e.Body)
}

// tooManyRequestsError carries a single 429 answer from the transport to the
// retry loop.
type tooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e *tooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests (retry after %s)", e.RetryAfter)
}
