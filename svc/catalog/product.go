package catalog

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product is a catalog entry as returned to callers.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int64     `json:"stock"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool { return p.Stock > 0 }

// Draft is the input for Create.
type Draft struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Stock       int64    `json:"stock"`
	Images      []string `json:"images"`
}

// Validate checks the draft without touching the store.
func (d Draft) Validate() error {
	return validate(d.Name, d.Price, d.Stock, d.Images)
}

// Patch is the input for Update. Nil fields are left unchanged; Images
// replaces the whole list when set.
type Patch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Stock       *int64    `json:"stock,omitempty"`
	Images      *[]string `json:"images,omitempty"`
}

// IsEmpty reports whether the patch carries no changes.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.Stock == nil && p.Images == nil
}

// Apply merges the patch into p and reports whether anything changed.
// The id and timestamps are never touched.
func (p Patch) Apply(prod Product) (Product, bool) {
	out := prod
	out.Images = slices.Clone(prod.Images)
	changed := false

	if p.Name != nil && *p.Name != prod.Name {
		out.Name, changed = *p.Name, true
	}
	if p.Description != nil && *p.Description != prod.Description {
		out.Description, changed = *p.Description, true
	}
	if p.Price != nil && *p.Price != prod.Price {
		out.Price, changed = *p.Price, true
	}
	if p.Category != nil && *p.Category != prod.Category {
		out.Category, changed = *p.Category, true
	}
	if p.Stock != nil && *p.Stock != prod.Stock {
		out.Stock, changed = *p.Stock, true
	}
	if p.Images != nil && !slices.Equal(*p.Images, prod.Images) {
		out.Images, changed = slices.Clone(*p.Images), true
	}
	return out, changed
}

// document is the persisted layout of a product.
type document struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Name        string        `bson:"name"`
	Description string        `bson:"description"`
	Price       float64       `bson:"price"`
	Category    string        `bson:"category"`
	Stock       int64         `bson:"stock"`
	Images      []string      `bson:"images"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}

func newDocument(d Draft, now time.Time) document {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return document{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Stock:       d.Stock,
		Images:      slices.Clone(images),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (d document) product() Product {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Stock:       d.Stock,
		Images:      images,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// now returns the current time at the store's millisecond precision so values
// returned from Create equal what a later Get reads back.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
