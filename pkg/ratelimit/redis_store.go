package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps counters in Redis so replicas share one budget.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a store backed by client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Increment implements Store. A new window is seeded with SET NX PX before
// INCRBY, all in one transaction, so the counter never exists without an
// expiry and an open window keeps its original one.
func (s *RedisStore) Increment(ctx context.Context, key string, n int, window time.Duration) (int64, time.Duration, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, window)
		incr = pipe.IncrBy(ctx, key, int64(n))
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	d := ttl.Val()
	if d < 0 {
		d = window
	}
	return incr.Val(), d, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
