package merchant

import (
	"net/http"

	"github.com/lucasbeta101/bether-backend-productos-sub000/handler"
	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/feed"
)

// ErrorRules translates feed errors into HTTP responses.
func ErrorRules() []handler.ErrorRule {
	return []handler.ErrorRule{
		handler.MapError(feed.ErrNotConfigured, http.StatusServiceUnavailable, "merchant_not_configured", "merchant feed is not configured"),
		handler.MapError(feed.ErrUpstream, http.StatusBadGateway, "merchant_unavailable", "merchant feed API is unavailable"),
	}
}
