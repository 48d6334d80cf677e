package merchant

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lucasbeta101/bether-backend-productos-sub000/handler"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/logger"
	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/feed"
)

// Feed is the merchant feed adapter. *feed.Adapter satisfies it.
type Feed interface {
	ExportCatalog(ctx context.Context) ([]feed.FeedItem, error)
	Sync(ctx context.Context) (feed.Report, error)
}

// DefaultSyncTimeout bounds POST /sync when WithSyncTimeout is not given.
const DefaultSyncTimeout = 2 * time.Minute

// syncWriteGrace is the time left to write the report after the sync deadline.
const syncWriteGrace = 5 * time.Second

type Service struct {
	feed           Feed
	errorHandler   handler.ErrorHandler[handler.Context]
	syncMiddleware []func(http.Handler) http.Handler
	syncTimeout    time.Duration
	log            *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithErrorHandler(h handler.ErrorHandler[handler.Context]) Option {
	return func(s *Service) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

// WithSyncMiddleware wraps POST /sync only.
func WithSyncMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Service) {
		s.syncMiddleware = append(s.syncMiddleware, mw...)
	}
}

// WithSyncTimeout bounds a sync triggered over HTTP. The response write
// deadline is pushed past it so the report still reaches the caller when the
// server's write timeout is shorter.
func WithSyncTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.syncTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(f Feed, opts ...Option) *Service {
	s := &Service{feed: f, syncTimeout: DefaultSyncTimeout, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	if s.errorHandler == nil {
		s.errorHandler = handler.NewErrorHandler(s.log, ErrorRules()...)
	}
	s.log = s.log.With(logger.Component("merchant"))
	return s
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.With(s.syncMiddleware...).Post("/sync", handler.Wrap(s.sync,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.Get("/feed", handler.Wrap(s.export,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))

	return r
}

func (s *Service) sync(ctx handler.Context, _ struct{}) handler.Response {
	rc := http.NewResponseController(ctx.ResponseWriter())
	if err := rc.SetWriteDeadline(time.Now().Add(s.syncTimeout + syncWriteGrace)); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.log.WarnContext(ctx, "extend write deadline", logger.Error(err))
	}

	syncCtx, cancel := context.WithTimeout(ctx, s.syncTimeout)
	defer cancel()

	report, err := s.feed.Sync(syncCtx)

	var partial *feed.PartialFailure
	switch {
	case err == nil:
		s.log.InfoContext(ctx, "merchant sync finished", logger.Count("succeeded", report.Succeeded))
		return handler.JSONBody(report)
	case errors.As(err, &partial):
		s.log.WarnContext(ctx, "merchant sync partially rejected",
			logger.Count("succeeded", report.Succeeded),
			logger.Count("failed", len(report.Failed)),
		)
		return handler.JSONBody(report, handler.WithJSONStatus(http.StatusMultiStatus))
	default:
		return handler.Error(err)
	}
}

func (s *Service) export(ctx handler.Context, _ struct{}) handler.Response {
	items, err := s.feed.ExportCatalog(ctx)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(items, handler.WithJSONMeta(map[string]any{"total": len(items)}))
}
