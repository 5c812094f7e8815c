package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited spaces calls to the wrapped generator.
type RateLimited struct {
	next    Generator
	limiter *rate.Limiter
}

// NewRateLimited allows requestsPerMinute calls per minute with a burst of one.
func NewRateLimited(next Generator, requestsPerMinute int) *RateLimited {
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}
}

// Generate waits for a token, then delegates.
func (r *RateLimited) Generate(ctx context.Context, req Request) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	return r.next.Generate(ctx, req)
}

// Timeout bounds each call to the wrapped generator.
type Timeout struct {
	next    Generator
	timeout time.Duration
}

// NewTimeout wraps next with a per-call deadline.
func NewTimeout(next Generator, timeout time.Duration) *Timeout {
	return &Timeout{next: next, timeout: timeout}
}

// Generate delegates under a derived deadline.
func (t *Timeout) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Generate(ctx, req)
}
