package api

import (
	"log/slog"

	"github.com/lucasbeta101/bether-backend-productos-sub000/handler"
	"github.com/lucasbeta101/bether-backend-productos-sub000/modules/merchant"
	"github.com/lucasbeta101/bether-backend-productos-sub000/modules/productos"
)

// NewErrorHandler returns the JSON error handler with the catalog and
// merchant translations.
func NewErrorHandler(log *slog.Logger) handler.ErrorHandler[handler.Context] {
	rules := append(productos.ErrorRules(), merchant.ErrorRules()...)
	return handler.NewErrorHandler(log, rules...)
}
