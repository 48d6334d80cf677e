package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/logger"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/mongo"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/ratelimit"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/redis"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/requestid"
	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/catalog"
	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/feed"
)

// app owns the long-lived dependencies shared by the commands.
type app struct {
	cfg     Config
	log     *slog.Logger
	manager *mongo.Manager
	repo    *catalog.Repository
	store   ratelimit.Store
	redis   *goredis.Client

	closeOnce sync.Once
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.App.Env, cfg.App.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.App.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.App.LogLevel))
	}
	return logger.New(opts...)
}

// newApp connects to MongoDB and, when configured, Redis. On error every
// resource opened so far is released.
func newApp(ctx context.Context, cfg Config, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	a.manager = mongo.NewManager(cfg.Mongo, mongo.WithLogger(log))
	if _, err := a.manager.Connect(ctx); err != nil {
		return nil, errors.Join(err, a.manager.Close(context.WithoutCancel(ctx)))
	}
	a.repo = catalog.NewRepository(a.manager, cfg.Catalog, catalog.WithLogger(log))
	if err := a.repo.EnsureIndexes(ctx); err != nil {
		log.WarnContext(ctx, "could not ensure product indexes", logger.Error(err))
	}

	a.store = ratelimit.NewMemoryStore()
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, errors.Join(err, a.close(context.WithoutCancel(ctx)))
		}
		a.redis = client
		a.store = ratelimit.NewRedisStore(client)
	}

	return a, nil
}

func (a *app) feedAdapter(ctx context.Context, recorder feed.Recorder) (*feed.Adapter, error) {
	limiter, err := ratelimit.NewFixedWindow(a.store, a.cfg.Feed.RateLimit, a.cfg.Feed.RateWindow)
	if err != nil {
		return nil, err
	}
	opts := []feed.AdapterOption{
		feed.WithLimiter(limiter),
		feed.WithLogger(a.log),
	}
	if recorder != nil {
		opts = append(opts, feed.WithRecorder(recorder))
	}
	return feed.NewFromConfig(ctx, a.cfg.Feed, a.repo, opts...)
}

// close releases Redis and the database connection. Only the first call
// does work and reports errors.
func (a *app) close(ctx context.Context) error {
	var errs []error
	a.closeOnce.Do(func() {
		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := a.manager.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

func closeOnError(ctx context.Context, a *app, err error) error {
	return errors.Join(err, a.close(context.WithoutCancel(ctx)))
}
