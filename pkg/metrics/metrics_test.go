package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/metrics"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	t.Parallel()

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/productos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/productos/"+id, nil))
	}

	out := scrape(t, m)
	assert.Contains(t, out, `productos_http_requests_total{method="GET",route="/productos/{id}",status="404"} 3`)
	assert.Contains(t, out, "productos_http_inflight_requests 0")
}

func TestRecordFeedPush(t *testing.T) {
	t.Parallel()

	m, err := metrics.New(nil)
	require.NoError(t, err)

	m.RecordFeedPush(3, 0, time.Second, nil)
	m.RecordFeedPush(2, 1, time.Second, errors.New("partial"))
	m.RecordFeedPush(0, 3, time.Second, errors.New("upstream"))

	out := scrape(t, m)
	for _, line := range []string{
		`productos_merchant_pushes_total{result="ok"} 1`,
		`productos_merchant_pushes_total{result="partial"} 1`,
		`productos_merchant_pushes_total{result="error"} 1`,
		`productos_merchant_items_total{outcome="succeeded"} 5`,
		`productos_merchant_items_total{outcome="failed"} 4`,
		`productos_merchant_push_duration_seconds_count 3`,
	} {
		assert.Contains(t, out, line)
	}
}

func TestConnectionStateGauge(t *testing.T) {
	t.Parallel()

	m, err := metrics.New(prometheus.NewRegistry(), metrics.WithConnectionState(func() float64 { return 2 }))
	require.NoError(t, err)

	out := scrape(t, m)
	assert.Contains(t, out, "# TYPE productos_mongo_connection_state gauge")
	assert.Contains(t, out, "productos_mongo_connection_state 2")
}

func TestNew_TwiceOnSameRegistry(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)
	_, err = metrics.New(reg)
	assert.NoError(t, err)
}
