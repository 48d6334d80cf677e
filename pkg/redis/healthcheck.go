package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Healthcheck returns a readiness probe that expects PONG from client. A nil
// client always fails.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return errors.Join(ErrHealthcheckFailed, ErrEmptyConnectionURL)
		}
		reply, err := client.Ping(ctx).Result()
		if err == nil && reply != "PONG" {
			err = fmt.Errorf("unexpected ping reply %q", reply)
		}
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
