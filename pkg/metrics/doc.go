// Package metrics exposes Prometheus instrumentation for the service.
//
// A Metrics value owns its collectors and registers them on the given
// registry: HTTP request counters, latency and in-flight gauges labelled by
// chi route pattern, merchant feed push outcomes, and an optional gauge
// reporting the database connection state.
//
//	reg := prometheus.NewRegistry()
//	m, err := metrics.New(reg, metrics.WithConnectionState(func() float64 {
//		return float64(manager.State())
//	}))
//	r.Use(m.Middleware)
//	r.Handle("/metrics", m.Handler())
package metrics
