package itad

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outbound API calls with a token bucket and keeps a
// cumulative call count for observability.
type RateLimiter struct {
	limiter *rate.Limiter
	calls   atomic.Int64
}

// NewRateLimiter creates a rate limiter allowing perSecond calls with the
// given burst size.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Wait blocks until the limiter allows the call, or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	r.calls.Add(1)
	return nil
}

// CallCount returns the total number of calls admitted so far.
func (r *RateLimiter) CallCount() int64 {
	return r.calls.Load()
}

// Tokens reports roughly how many calls could proceed immediately.
func (r *RateLimiter) Tokens() float64 {
	return r.limiter.TokensAt(time.Now())
}
