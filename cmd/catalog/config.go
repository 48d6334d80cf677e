package main

import (
	"time"

	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/config"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/httpserver"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/mongo"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/redis"
	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/catalog"
	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/feed"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Name     string `env:"APP_NAME" envDefault:"productos"`
	LogLevel string `env:"LOG_LEVEL"`

	SyncLimit  int           `env:"MERCHANT_SYNC_LIMIT" envDefault:"6"`
	SyncWindow time.Duration `env:"MERCHANT_SYNC_WINDOW" envDefault:"1m"`
	// SyncTimeout bounds POST /merchant/sync; the write deadline of that
	// response is extended past it.
	SyncTimeout time.Duration `env:"MERCHANT_SYNC_TIMEOUT" envDefault:"2m"`
}

// Config aggregates the settings of every component.
type Config struct {
	App     appConfig
	Mongo   mongo.Config
	Catalog catalog.Config
	HTTP    httpserver.Config
	Feed    feed.Config
	Redis   redis.Config
}

func loadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) > 0 {
		if err := config.LoadEnv(envFiles...); err != nil {
			return Config{}, err
		}
	}
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
