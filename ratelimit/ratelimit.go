package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces out calls to an upstream source. Every permitted call
// happens at least Interval after the previous one. Waiters are served
// in the order they arrive. Safe for concurrent use.
type Limiter struct {
	Interval time.Duration

	limiter *rate.Limiter
}

// Creates a Limiter. An interval <= 0 disables pacing.
func New(interval time.Duration) *Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Limiter{
		Interval: interval,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Blocks until the next call is permitted. The first call never
// waits. Returns ctx's error if it is done before then, in which case
// the slot is given back.
func (l *Limiter) WaitIfNeeded(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
