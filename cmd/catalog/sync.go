package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/logger"
	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/feed"
)

func newSyncCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push the catalog to the merchant feed once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*envFiles...)
			if err != nil {
				return err
			}
			return runSync(cmd.Context(), cfg)
		},
	}
}

func runSync(ctx context.Context, cfg Config) error {
	log := newLogger(cfg)

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "startup failed", logger.Error(err))
		return err
	}
	defer func() {
		if err := a.close(context.WithoutCancel(ctx)); err != nil {
			log.ErrorContext(ctx, "shutdown failed", logger.Error(err))
		}
	}()

	adapter, err := a.feedAdapter(ctx, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := adapter.Sync(ctx)
	attrs := []any{
		logger.Count("succeeded", report.Succeeded),
		logger.Count("failed", len(report.Failed)),
		logger.Duration(time.Since(start)),
	}

	var partial *feed.PartialFailure
	switch {
	case err == nil:
		log.InfoContext(ctx, "merchant sync finished", attrs...)
	case errors.As(err, &partial):
		for _, f := range report.Failed {
			log.WarnContext(ctx, "offer rejected", logger.ProductID(f.ID), slog.String("reason", f.Reason))
		}
		log.ErrorContext(ctx, "merchant sync partially failed", attrs...)
	default:
		log.ErrorContext(ctx, "merchant sync failed", append(attrs, logger.Error(err))...)
	}
	return err
}
