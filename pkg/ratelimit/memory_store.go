package ratelimit

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps counters in process. Expired windows are purged by the
// cache janitor.
type MemoryStore struct {
	counters *cache.Cache
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*memoryStoreConfig)

type memoryStoreConfig struct {
	cleanupInterval time.Duration
}

// WithCleanupInterval sets how often expired counters are removed.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(c *memoryStoreConfig) {
		if interval > 0 {
			c.cleanupInterval = interval
		}
	}
}

// NewMemoryStore creates an in-process counter store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	cfg := memoryStoreConfig{cleanupInterval: time.Minute}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemoryStore{
		counters: cache.New(cache.NoExpiration, cfg.cleanupInterval),
	}
}

// Increment implements Store.
func (s *MemoryStore) Increment(ctx context.Context, key string, n int, window time.Duration) (int64, time.Duration, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		// Add only succeeds when no live window exists for key.
		if err := s.counters.Add(key, int64(n), window); err == nil {
			return int64(n), window, nil
		}
		count, err := s.counters.IncrementInt64(key, int64(n))
		if err != nil {
			// the window expired between Add and IncrementInt64
			continue
		}
		_, expiresAt, ok := s.counters.GetWithExpiration(key)
		if !ok {
			return count, window, nil
		}
		return count, time.Until(expiresAt), nil
	}
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.counters.Delete(key)
	return nil
}
