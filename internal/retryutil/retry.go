// Package retryutil implements the shared exponential-backoff retry loop
// used by both external clients. An HTTP-specific wrapper reads the
// Retry-After header when present; a generic Do covers non-HTTP retries.
package retryutil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/medmatch/matching-core/internal/domain"
)

// Policy bounds a retry loop.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration // delay for attempt 0; doubles each subsequent attempt
	MaxDelay   time.Duration
}

// DefaultPolicy matches the teacher's 1s/2s/4s… backoff, capped at 3 retries.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second}
}

// Do runs op, retrying on errors the classifier marks retryable, up to
// policy.MaxRetries additional attempts. classify receives the error
// returned by op and decides both retryability and the wait duration
// override (e.g. from a Retry-After header); returning a zero duration
// falls back to exponential backoff.
func Do(ctx context.Context, policy Policy, op func(attempt int) error, classify func(err error) (retryable bool, retryAfter time.Duration)) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = op(attempt)
		if lastErr == nil {
			return nil
		}

		retryable, retryAfter := classify(lastErr)
		if !retryable || attempt >= policy.MaxRetries {
			return lastErr
		}

		wait := retryAfter
		if wait <= 0 {
			wait = backoffDelay(policy, attempt)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func backoffDelay(policy Policy, attempt int) time.Duration {
	d := policy.BaseDelay << uint(attempt)
	if policy.MaxDelay > 0 && d > policy.MaxDelay {
		return policy.MaxDelay
	}
	return d
}

// ClassifyHTTPStatus maps an HTTP response into a *domain.ClientError and
// reports whether retryutil.Do should retry it: 429 and 5xx are
// retryable, everything else terminal. resp.Header's Retry-After (if
// present and parseable) overrides exponential backoff.
func ClassifyHTTPStatus(resp *http.Response, bodySnippet string) *domain.ClientError {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &domain.ClientError{
			Kind:        domain.ErrKindRateLimit,
			Message:     "rate limited",
			StatusCode:  resp.StatusCode,
			RetryAfter:  parseRetryAfter(resp),
			BodySnippet: bodySnippet,
		}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &domain.ClientError{
			Kind:        domain.ErrKindAuthentication,
			Message:     "authentication failed",
			StatusCode:  resp.StatusCode,
			BodySnippet: bodySnippet,
		}
	case resp.StatusCode >= 500:
		return &domain.ClientError{
			Kind:        domain.ErrKindNetwork,
			Message:     "server error",
			StatusCode:  resp.StatusCode,
			BodySnippet: bodySnippet,
		}
	case resp.StatusCode >= 400:
		return domain.NewOtherError(resp.StatusCode, bodySnippet, nil)
	default:
		return nil
	}
}

func parseRetryAfter(resp *http.Response) time.Duration {
	ra := resp.Header.Get("Retry-After")
	if ra == "" {
		return 0
	}
	if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// ClassifyClientError is the classify callback for Do when op returns
// errors wrapping *domain.ClientError.
func ClassifyClientError(err error) (bool, time.Duration) {
	var ce *domain.ClientError
	if errors.As(err, &ce) {
		return ce.IsRetryable(), ce.RetryAfter
	}
	return false, 0
}
