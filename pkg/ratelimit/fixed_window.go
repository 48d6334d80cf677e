package ratelimit

import (
	"context"
	"errors"
	"time"
)

// FixedWindow allows up to limit requests per key in each window.
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
	prefix string
}

// FixedWindowOption configures a FixedWindow.
type FixedWindowOption func(*FixedWindow)

// WithPrefix namespaces every key, which matters when the store is shared.
func WithPrefix(prefix string) FixedWindowOption {
	return func(fw *FixedWindow) {
		fw.prefix = prefix
	}
}

// NewFixedWindow creates a limiter allowing limit requests per window.
func NewFixedWindow(store Store, limit int, window time.Duration, opts ...FixedWindowOption) (*FixedWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}

	fw := &FixedWindow{
		store:  store,
		limit:  limit,
		window: window,
		prefix: "ratelimit:",
	}
	for _, opt := range opts {
		opt(fw)
	}
	return fw, nil
}

// Allow consumes one slot for key if one is left.
func (fw *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	count, ttl, err := fw.store.Increment(ctx, fw.prefix+key, 1, fw.window)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	if ttl <= 0 {
		ttl = fw.window
	}

	remaining := fw.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:   count <= int64(fw.limit),
		Limit:     fw.limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

// Wait blocks until a slot for key is available or ctx is done.
func (fw *FixedWindow) Wait(ctx context.Context, key string) error {
	for {
		res, err := fw.Allow(ctx, key)
		if err != nil {
			return err
		}
		if res.Allowed {
			return nil
		}

		timer := time.NewTimer(max(res.RetryAfter(), time.Millisecond))
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(ErrRateLimitExceeded, ctx.Err())
		case <-timer.C:
		}
	}
}

// Reset clears the window of key.
func (fw *FixedWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return fw.store.Delete(ctx, fw.prefix+key)
}
