package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when pushing without merchant settings.
	ErrNotConfigured = errors.New("merchant feed is not configured")
	// ErrUpstream means the feed API could not be reached or refused every batch.
	ErrUpstream       = errors.New("merchant feed API unavailable")
	ErrPartialFailure = errors.New("merchant feed partially rejected")
	ErrCircuitOpen    = errors.New("merchant feed circuit breaker is open")
	ErrRequestFailed  = errors.New("merchant feed request failed")
	ErrPermanent      = errors.New("merchant feed request rejected")

	ErrInvalidCategoryMap = errors.New("invalid category map")
	ErrInvalidConfig      = errors.New("invalid merchant feed configuration")
)

// PartialFailure lists the items the feed API rejected. Items not listed were
// accepted.
type PartialFailure struct {
	Failed []ItemFailure
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s: %d item(s) failed", ErrPartialFailure, len(e.Failed))
}

func (e *PartialFailure) Unwrap() error { return ErrPartialFailure }

// IDs returns the offer ids of the rejected items.
func (e *PartialFailure) IDs() []string {
	ids := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		ids = append(ids, f.ID)
	}
	return ids
}
