package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lucasbeta101/bether-backend-productos-sub000/handler"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/logger"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/metrics"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/requestid"
)

// Mountable is a module serving a sub-tree of the API.
type Mountable interface {
	Handle() http.Handler
}

// Options configures Router. Modules and metrics are optional.
type Options struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Health       HealthCheck
	ErrorHandler handler.ErrorHandler[handler.Context]

	Products Mountable
	Merchant Mountable
}

// Router builds the root router.
func Router(opts Options) chi.Router {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	errorHandler := opts.ErrorHandler
	if errorHandler == nil {
		errorHandler = handler.NewErrorHandler(log)
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.RealIP)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(accessLog(log))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorHandler(handler.NewContext(w, r), handler.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errorHandler(handler.NewContext(w, r), handler.ErrMethodNotAllowed)
	})

	r.Get("/health", opts.Health.Handler(log))
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	if opts.Products != nil {
		r.Mount("/productos", opts.Products.Handle())
	}
	if opts.Merchant != nil {
		r.Mount("/merchant", opts.Merchant.Handle())
	}

	return r
}

func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	log = log.With(logger.Component("http"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.LogAttrs(r.Context(), slog.LevelInfo, "request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", ww.Status()),
					slog.Int("bytes", ww.BytesWritten()),
					logger.Duration(time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
