package main

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/lucasbeta101/bether-backend-productos-sub000/modules/api"
	"github.com/lucasbeta101/bether-backend-productos-sub000/modules/merchant"
	"github.com/lucasbeta101/bether-backend-productos-sub000/modules/productos"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/httpserver"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/logger"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/metrics"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/mongo"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/ratelimit"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/redis"
)

func newServeCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*envFiles...)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg Config) error {
	log := newLogger(cfg)
	logger.SetAsDefault(log)

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "startup failed", logger.Error(err))
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg, metrics.WithConnectionState(func() float64 {
		return float64(a.manager.State())
	}))
	if err != nil {
		return closeOnError(ctx, a, err)
	}

	adapter, err := a.feedAdapter(ctx, m)
	if err != nil {
		return closeOnError(ctx, a, err)
	}
	syncLimiter, err := ratelimit.NewFixedWindow(a.store, cfg.App.SyncLimit, cfg.App.SyncWindow,
		ratelimit.WithPrefix("ratelimit:sync:"))
	if err != nil {
		return closeOnError(ctx, a, err)
	}

	health := api.HealthCheck{Ping: mongo.Healthcheck(a.manager), Count: a.repo.EstimatedCount}
	if a.redis != nil {
		health.Checks = append(health.Checks, redis.Healthcheck(a.redis))
	}

	errHandler := api.NewErrorHandler(log)
	router := api.Router(api.Options{
		Logger:       log,
		Metrics:      m,
		ErrorHandler: errHandler,
		Health:       health,
		Products:     productos.NewService(a.repo, errHandler),
		Merchant: merchant.NewService(adapter,
			merchant.WithErrorHandler(errHandler),
			merchant.WithLogger(log),
			merchant.WithSyncTimeout(cfg.App.SyncTimeout),
			merchant.WithSyncMiddleware(ratelimit.Middleware(syncLimiter, ratelimit.ByIP(""), log)),
		),
	})

	srv := httpserver.New(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithShutdownHook(a.close),
	)
	// The shutdown hook normally closes the app; this covers a listener
	// that never started.
	runErr := srv.Run(ctx, router)
	return errors.Join(runErr, a.close(context.WithoutCancel(ctx)))
}
