package ratelimit

import (
	"context"
	"time"
)

// Result contains the result of a rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 if the current request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	if d := time.Until(r.ResetAt); d > 0 {
		return d
	}
	return 0
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
	Wait(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Store keeps per-key counters for one window.
type Store interface {
	// Increment atomically adds n to the counter of key, starting a new window
	// of the given length when none is active, and returns the new count
	// together with the time left in the window.
	Increment(ctx context.Context, key string, n int, window time.Duration) (count int64, ttl time.Duration, err error)

	// Delete removes the counter of key.
	Delete(ctx context.Context, key string) error
}
