package catalog

import (
	"math"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Filter restricts List and Count. Zero values match everything; the price
// bounds are inclusive.
type Filter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// Validate rejects non-finite, negative or inverted price bounds.
func (f Filter) Validate() error {
	verr := NewValidationError()
	minOK := checkBound(verr, "minPrice", f.MinPrice)
	maxOK := checkBound(verr, "maxPrice", f.MaxPrice)
	if minOK && maxOK && f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		verr.Add("minPrice", "must not be greater than maxPrice")
	}
	if verr.IsEmpty() {
		return nil
	}
	return verr
}

func checkBound(verr ValidationError, field string, v *float64) bool {
	switch {
	case v == nil:
		return true
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		verr.Add(field, "must be a finite number")
		return false
	case *v < 0:
		verr.Add(field, "must be greater than or equal to 0")
		return false
	}
	return true
}

func (f Filter) bson() bson.D {
	filter := bson.D{}
	if f.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: f.Category})
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		rng := bson.D{}
		if f.MinPrice != nil {
			rng = append(rng, bson.E{Key: "$gte", Value: *f.MinPrice})
		}
		if f.MaxPrice != nil {
			rng = append(rng, bson.E{Key: "$lte", Value: *f.MaxPrice})
		}
		filter = append(filter, bson.E{Key: "price", Value: rng})
	}
	return filter
}

// Page selects a window of results.
type Page struct {
	Offset int64 `json:"offset"`
	Limit  int64 `json:"limit"`
}

// Normalize applies the default limit, caps it at MaxLimit and clamps a
// negative offset to zero.
func (p Page) Normalize() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	return p
}
