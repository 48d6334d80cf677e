package handler

import "net/http"

// errorResponse defers an error to the ErrorHandler: its Render returns the
// error, which Wrap then passes on.
type errorResponse struct {
	err error
}

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// Error returns a Response that hands err to the ErrorHandler.
func Error(err error) Response {
	return errorResponse{err: err}
}
