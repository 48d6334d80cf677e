package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrInvalidJSON          = errors.New("invalid JSON")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrInvalidQuery         = errors.New("invalid query parameter")
	ErrInvalidPath          = errors.New("invalid path parameter")
)

// IsBindError reports whether err was produced while binding a request.
func IsBindError(err error) bool {
	for _, target := range []error{
		ErrUnsupportedMediaType,
		ErrMissingContentType,
		ErrInvalidJSON,
		ErrBodyTooLarge,
		ErrInvalidQuery,
		ErrInvalidPath,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
