// Package httpserver runs an http.Handler with graceful shutdown.
//
// Run listens on the configured port and blocks until the context is
// cancelled, SIGINT or SIGTERM arrives, or the listener fails. Shutdown
// drains in-flight requests within ShutdownTimeout and then runs the
// registered shutdown hooks in order, which is where the service releases
// its database connection:
//
//	srv := httpserver.New(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithShutdownHook(manager.Close),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
package httpserver
