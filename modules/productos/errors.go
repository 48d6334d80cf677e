package productos

import (
	"net/http"

	"github.com/lucasbeta101/bether-backend-productos-sub000/handler"
	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/catalog"
)

// ErrorRules translates catalog errors into HTTP responses.
func ErrorRules() []handler.ErrorRule {
	return []handler.ErrorRule{
		handler.MapValidation[catalog.ValidationError](http.StatusBadRequest),
		handler.MapError(catalog.ErrNotFound, http.StatusNotFound, "not_found", "product not found"),
		handler.MapError(catalog.ErrNotConnected, http.StatusServiceUnavailable, "database_unavailable", "database is not connected"),
		handler.MapError(catalog.ErrUnavailable, http.StatusServiceUnavailable, "database_unavailable", "database is temporarily unavailable"),
	}
}
