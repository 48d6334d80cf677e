package requestid

import (
	"context"
	"log/slog"

	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/logger"
)

// LoggerExtractor adds the request_id attribute to records logged with a
// request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := FromContext(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		return logger.RequestID(id), true
	}
}
