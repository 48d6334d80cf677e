package binder

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Path binds fields tagged `path:"name"` from route parameters. A nil
// extractor uses chi.URLParam.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	if extractor == nil {
		extractor = chi.URLParam
	}
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "path", func(name string) []string {
			if value := extractor(r, name); value != "" {
				return []string{value}
			}
			return nil
		}, ErrInvalidPath)
	}
}
