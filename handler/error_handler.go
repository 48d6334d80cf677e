package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lucasbeta101/bether-backend-productos-sub000/binder"
	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/logger"
)

// ErrorRule turns a matching error into a response status and detail.
type ErrorRule func(err error) (status int, detail *ErrorDetail, ok bool)

// MapError matches target with errors.Is and answers status with code and a
// fixed message.
func MapError(target error, status int, code, message string) ErrorRule {
	return func(err error) (int, *ErrorDetail, bool) {
		if !errors.Is(err, target) {
			return 0, nil, false
		}
		return status, &ErrorDetail{Code: code, Message: message}, true
	}
}

// MapValidation matches errors of type V, which must expose its violated
// fields as a map of messages.
func MapValidation[V interface {
	error
	~map[string][]string
}](status int) ErrorRule {
	return func(err error) (int, *ErrorDetail, bool) {
		var verr V
		if !errors.As(err, &verr) {
			return 0, nil, false
		}
		details := make(map[string][]string, len(verr))
		for field, msgs := range verr {
			details[field] = append([]string(nil), msgs...)
		}
		return status, &ErrorDetail{Code: "validation_error", Message: "validation failed", Details: details}, true
	}
}

func bindRule(err error) (int, *ErrorDetail, bool) {
	if !binder.IsBindError(err) {
		return 0, nil, false
	}
	return http.StatusBadRequest, &ErrorDetail{Code: ErrBadRequest.Key, Message: err.Error()}, true
}

func httpErrorRule(err error) (int, *ErrorDetail, bool) {
	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		return 0, nil, false
	}
	return httpErr.Code, &ErrorDetail{Code: httpErr.Key, Message: http.StatusText(httpErr.Code)}, true
}

// NewErrorHandler returns an ErrorHandler rendering JSON errors. Rules are
// tried in order, then bind errors and HTTPError; anything else is a 500
// with a generic message. 5xx are logged at error level, 4xx at warn.
func NewErrorHandler(log *slog.Logger, rules ...ErrorRule) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	all := append(append([]ErrorRule{}, rules...), bindRule, httpErrorRule)

	return func(ctx Context, err error) {
		status := http.StatusInternalServerError
		detail := &ErrorDetail{Code: ErrInternalServerError.Key, Message: "an error occurred processing your request"}
		for _, rule := range all {
			if s, d, ok := rule(err); ok {
				status, detail = s, d
				break
			}
		}

		level := slog.LevelError
		if status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		r := ctx.Request()
		log.LogAttrs(r.Context(), level, "request error",
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := JSONError(status, detail).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response", logger.Error(renderErr))
		}
	}
}
