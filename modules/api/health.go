package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/logger"
	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/catalog"
)

const healthTimeout = 2 * time.Second

// HealthCheck reports readiness. Ping and every entry of Checks must
// succeed; Count, when set, reports the catalog size and runs on every probe,
// so it should be cheap (catalog.Repository.EstimatedCount).
type HealthCheck struct {
	Ping   func(ctx context.Context) error
	Count  func(ctx context.Context) (int64, error)
	Checks []func(ctx context.Context) error
}

type healthStatus struct {
	Status   string `json:"status"`
	Products *int64 `json:"products,omitempty"`
}

// Handler answers 200 {"status":"ready","products":N} or 503
// {"status":"unavailable"}.
func (hc HealthCheck) Handler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status, body := http.StatusOK, healthStatus{Status: "ready"}
		if err := hc.check(ctx, &body); err != nil {
			log.WarnContext(ctx, "health check failed", logger.Error(err), logger.Component("health"))
			status, body = http.StatusServiceUnavailable, healthStatus{Status: "unavailable"}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (hc HealthCheck) check(ctx context.Context, body *healthStatus) error {
	if hc.Ping == nil {
		return catalog.ErrNotConnected
	}
	if err := hc.Ping(ctx); err != nil {
		return err
	}
	for _, check := range hc.Checks {
		if err := check(ctx); err != nil {
			return err
		}
	}
	if hc.Count != nil {
		n, err := hc.Count(ctx)
		if err != nil {
			return err
		}
		body.Products = &n
	}
	return nil
}
