package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucket wraps golang.org/x/time/rate for the LLM client's burst-
// tolerant limiter: requestsPerMinute steady-state, burst allows a short
// spike above it.
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket builds a bucket refilling at requestsPerMinute with a
// burst capacity of burst tokens.
func NewTokenBucket(requestsPerMinute, burst int) *TokenBucket {
	if burst <= 0 {
		burst = 1
	}
	r := rate.Limit(float64(requestsPerMinute) / 60.0)
	return &TokenBucket{limiter: rate.NewLimiter(r, burst)}
}

// Wait blocks until a token is available or ctx is done.
func (b *TokenBucket) Wait(ctx context.Context) error {
	return b.limiter.Wait(ctx)
}

// Allow reports whether a token is available right now, consuming one if so.
func (b *TokenBucket) Allow() bool {
	return b.limiter.Allow()
}

// Reserve returns the delay the caller must wait before a token would be
// available, without blocking.
func (b *TokenBucket) Reserve() time.Duration {
	r := b.limiter.Reserve()
	if !r.OK() {
		return time.Hour
	}
	return r.Delay()
}
