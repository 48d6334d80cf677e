// Package logger builds *slog.Logger instances for the catalog service.
//
// New applies functional options on top of production-safe defaults (JSON,
// INFO) and wraps the handler with a decorator that copies request-scoped
// values, such as the request id, from the context into every record.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "productos"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "product created", logger.ProductID(p.ID), logger.Component("catalog"))
//
// The attribute helpers in attr.go keep key names consistent across packages.
package logger
