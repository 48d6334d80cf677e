package mongo

import (
	"context"
	"errors"
)

// Healthcheck returns a readiness probe for the manager's active handle.
// It fails when the manager is not Ready or the ping fails.
func Healthcheck(m *Manager) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := m.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
