package binder

import "net/http"

// Query binds fields tagged `query:"name"` from the URL query string.
// Pointer fields stay nil when the parameter is absent.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		q := r.URL.Query()
		return bindToStruct(v, "query", func(name string) []string { return q[name] }, ErrInvalidQuery)
	}
}
