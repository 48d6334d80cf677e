// Package ratelimit implements a fixed-window rate limiter with pluggable
// counter storage.
//
// MemoryStore keeps counters in process and suits a single replica.
// RedisStore shares counters through Redis so every replica draws from the
// same budget.
//
//	limiter, err := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(), 10, time.Second)
//	if err != nil {
//		return err
//	}
//	if err := limiter.Wait(ctx, "merchant:batch"); err != nil {
//		return err
//	}
//
// Middleware applies a Limiter to HTTP handlers and answers 429 with a
// Retry-After header once the window is exhausted.
package ratelimit
