package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/logger"
)

// Server wraps http.Server with signal handling and shutdown hooks.
type Server struct {
	cfg           Config
	log           *slog.Logger
	startHooks    []func(addr string)
	shutdownHooks []func(ctx context.Context) error

	mu       sync.Mutex
	srv      *http.Server
	addr     string
	once     sync.Once
	shutdown error
}

func New(cfg Config, opts ...Option) *Server {
	s := &Server{cfg: cfg, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the bound address while the server runs, or "" otherwise.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run serves handler until ctx is done, a termination signal arrives, or
// the listener fails. A clean stop returns nil.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, err)
	}
	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.srv = srv
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	s.log.InfoContext(ctx, "http server started", slog.String("addr", s.addr), logger.Component("httpserver"))
	for _, h := range s.startHooks {
		h(s.addr)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var serveErr error
	select {
	case <-sigCtx.Done():
		s.log.InfoContext(ctx, "http server stopping", logger.Component("httpserver"))
	case serveErr = <-errCh:
	}

	shutdownErr := s.Shutdown(context.WithoutCancel(ctx))
	if serveErr == nil {
		serveErr = <-errCh
	}
	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, serveErr, shutdownErr)
	}
	return shutdownErr
}

// Shutdown drains the server and runs the shutdown hooks once. Later calls
// return the first result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.once.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout())
		defer cancel()

		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()

		var errs []error
		if srv != nil {
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs = append(errs, err)
			}
		}
		for _, h := range s.shutdownHooks {
			if err := h(ctx); err != nil {
				errs = append(errs, err)
			}
		}

		s.mu.Lock()
		s.addr = ""
		s.mu.Unlock()

		if len(errs) > 0 {
			s.shutdown = errors.Join(append([]error{ErrShutdown}, errs...)...)
			s.log.ErrorContext(ctx, "http server shutdown failed", logger.Error(s.shutdown), logger.Component("httpserver"))
			return
		}
		s.log.InfoContext(ctx, "http server stopped", logger.Component("httpserver"))
	})
	return s.shutdown
}
