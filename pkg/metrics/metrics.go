package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "productos"

// Metrics holds the service collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge

	feedPushes   *prometheus.CounterVec
	feedItems    *prometheus.CounterVec
	feedDuration prometheus.Histogram

	connState func() float64
}

// Option configures Metrics.
type Option func(*Metrics)

// WithConnectionState exports fn as the mongo_connection_state gauge.
func WithConnectionState(fn func() float64) Option {
	return func(m *Metrics) { m.connState = fn }
}

// New creates the collectors and registers them on reg. A nil reg uses a
// fresh registry. Finding identical collectors already registered is not an
// error.
func New(reg *prometheus.Registry, opts ...Option) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Processed HTTP requests.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "Requests currently being served.",
		}),
		feedPushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merchant_pushes_total",
			Help:      "Merchant feed pushes by result.",
		}, []string{"result"}),
		feedItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merchant_items_total",
			Help:      "Offers submitted to the merchant feed by outcome.",
		}, []string{"outcome"}),
		feedDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "merchant_push_duration_seconds",
			Help:      "Duration of a full catalog push.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
	}
	for _, opt := range opts {
		opt(m)
	}

	collectors := []prometheus.Collector{
		m.requests, m.duration, m.inflight,
		m.feedPushes, m.feedItems, m.feedDuration,
	}
	if m.connState != nil {
		collectors = append(collectors, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mongo_connection_state",
			Help:      "Connection manager state: 0 uninitialized, 1 connecting, 2 ready, 3 failed, 4 closed.",
		}, m.connState))
	}
	for _, c := range collectors {
		if err := register(reg, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records count, latency and in-flight requests. The route label
// is the matched chi pattern so ids do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inflight.Inc()
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		defer func() {
			m.inflight.Dec()
			route := routePattern(r)
			method := strings.ToUpper(r.Method)
			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(rec, r)
	})
}

// RecordFeedPush records the outcome of a merchant feed push.
func (m *Metrics) RecordFeedPush(succeeded, failed int, elapsed time.Duration, err error) {
	result := "ok"
	switch {
	case err != nil && succeeded == 0:
		result = "error"
	case failed > 0:
		result = "partial"
	}
	m.feedPushes.WithLabelValues(result).Inc()
	m.feedItems.WithLabelValues("succeeded").Add(float64(succeeded))
	m.feedItems.WithLabelValues("failed").Add(float64(failed))
	m.feedDuration.Observe(elapsed.Seconds())
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
