package httpserver

import (
	"context"
	"log/slog"
)

// Option configures a Server.
type Option func(*Server)

func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStartHook runs h with the bound address once the listener is open.
func WithStartHook(h func(addr string)) Option {
	return func(s *Server) {
		if h != nil {
			s.startHooks = append(s.startHooks, h)
		}
	}
}

// WithShutdownHook runs h after in-flight requests have drained. Hooks run
// in registration order, even when draining timed out.
func WithShutdownHook(h func(ctx context.Context) error) Option {
	return func(s *Server) {
		if h != nil {
			s.shutdownHooks = append(s.shutdownHooks, h)
		}
	}
}
