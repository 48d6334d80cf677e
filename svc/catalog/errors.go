package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/mongo"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrNotConnected is returned when the connection manager is not Ready.
	ErrNotConnected = mongo.ErrNotConnected
	// ErrUnavailable marks a store call that failed on the network or timed out.
	ErrUnavailable = errors.New("product store unavailable")
	// ErrStore marks any other store failure. The underlying driver error is
	// joined for logging and must not be shown to API callers.
	ErrStore = errors.New("product store operation failed")
	// ErrInvalidProduct matches every ValidationError.
	ErrInvalidProduct = errors.New("invalid product")
)

// ValidationError lists the violated fields with one or more messages each.
type ValidationError url.Values

func NewValidationError() ValidationError {
	return make(ValidationError)
}

func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, field := range e.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidProduct
}

// Add records a message for field.
func (e ValidationError) Add(field, message string) {
	url.Values(e).Add(field, message)
}

// Get returns the first message recorded for field.
func (e ValidationError) Get(field string) string {
	return url.Values(e).Get(field)
}

func (e ValidationError) Has(field string) bool {
	return len(e[field]) > 0
}

// Fields returns the violated field names in sorted order.
func (e ValidationError) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

func (e ValidationError) IsEmpty() bool {
	return len(e) == 0
}
