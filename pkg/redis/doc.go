// Package redis connects the optional Redis instance used to share rate
// limit counters between replicas.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	if cfg.Enabled() {
//		client, err := redis.Connect(ctx, cfg)
//		...
//		defer client.Close()
//	}
//
// Healthcheck wraps PING for readiness probes.
package redis
