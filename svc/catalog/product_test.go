package catalog_test

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/catalog"
)

func ptr[T any](v T) *T { return &v }

func TestDraftValidate(t *testing.T) {
	t.Parallel()

	valid := catalog.Draft{
		Name:     "Filtro de aceite",
		Price:    12.5,
		Category: "filtros",
		Stock:    3,
		Images:   []string{"https://cdn.example.com/a.jpg"},
	}

	tests := []struct {
		name   string
		mutate func(d *catalog.Draft)
		fields []string
	}{
		{name: "valid", mutate: func(d *catalog.Draft) {}},
		{name: "zero price and stock", mutate: func(d *catalog.Draft) { d.Price, d.Stock = 0, 0 }},
		{name: "negative price", mutate: func(d *catalog.Draft) { d.Price = -0.01 }, fields: []string{"price"}},
		{name: "negative stock", mutate: func(d *catalog.Draft) { d.Stock = -1 }, fields: []string{"stock"}},
		{name: "both negative", mutate: func(d *catalog.Draft) { d.Price, d.Stock = -1, -1 }, fields: []string{"price", "stock"}},
		{name: "blank name", mutate: func(d *catalog.Draft) { d.Name = "   " }, fields: []string{"name"}},
		{name: "long name", mutate: func(d *catalog.Draft) { d.Name = strings.Repeat("a", catalog.MaxNameLength+1) }, fields: []string{"name"}},
		{name: "relative image", mutate: func(d *catalog.Draft) { d.Images = []string{"/img/a.jpg"} }, fields: []string{"images[0]"}},
		{name: "ftp image", mutate: func(d *catalog.Draft) { d.Images = []string{"https://ok.example.com/a.jpg", "ftp://x/a.jpg"} }, fields: []string{"images[1]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := valid
			tt.mutate(&d)

			err := d.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, catalog.ErrInvalidProduct)

			var verr catalog.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.fields, verr.Fields())
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	verr := catalog.NewValidationError()
	assert.True(t, verr.IsEmpty())
	assert.Equal(t, "validation failed", verr.Error())

	verr.Add("stock", "must be greater than or equal to 0")
	verr.Add("price", "must be greater than or equal to 0")

	assert.True(t, verr.Has("price"))
	assert.False(t, verr.Has("name"))
	assert.Equal(t, "must be greater than or equal to 0", verr.Get("stock"))
	assert.Equal(t,
		"validation failed: price: must be greater than or equal to 0; stock: must be greater than or equal to 0",
		verr.Error(),
	)
}

func TestPatchApply(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	base := catalog.Product{
		ID:        "65f000000000000000000001",
		Name:      "Bujía",
		Price:     4,
		Category:  "encendido",
		Stock:     10,
		Images:    []string{"https://cdn.example.com/b.jpg"},
		CreatedAt: created,
		UpdatedAt: created,
	}

	t.Run("empty patch", func(t *testing.T) {
		t.Parallel()
		p := catalog.Patch{}
		assert.True(t, p.IsEmpty())
		out, changed := p.Apply(base)
		assert.False(t, changed)
		assert.Equal(t, base, out)
	})

	t.Run("same values are not a change", func(t *testing.T) {
		t.Parallel()
		p := catalog.Patch{Name: ptr("Bujía"), Stock: ptr(int64(10)), Images: ptr([]string{"https://cdn.example.com/b.jpg"})}
		_, changed := p.Apply(base)
		assert.False(t, changed)
	})

	t.Run("partial update", func(t *testing.T) {
		t.Parallel()
		p := catalog.Patch{Price: ptr(5.5), Stock: ptr(int64(0))}
		out, changed := p.Apply(base)
		require.True(t, changed)
		assert.Equal(t, 5.5, out.Price)
		assert.Equal(t, int64(0), out.Stock)
		assert.Equal(t, base.Name, out.Name)
		assert.Equal(t, base.ID, out.ID)
		assert.Equal(t, base.CreatedAt, out.CreatedAt)
	})

	t.Run("images replace the list", func(t *testing.T) {
		t.Parallel()
		p := catalog.Patch{Images: ptr([]string{})}
		out, changed := p.Apply(base)
		require.True(t, changed)
		assert.Empty(t, out.Images)
		assert.Len(t, base.Images, 1, "input must not be mutated")
	})

	t.Run("applying twice is idempotent", func(t *testing.T) {
		t.Parallel()
		p := catalog.Patch{Name: ptr("Bujía iridio"), Price: ptr(9.0)}
		once, changed := p.Apply(base)
		require.True(t, changed)
		twice, changed := p.Apply(once)
		assert.False(t, changed)
		assert.Equal(t, once, twice)
	})
}

func TestFilterValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, catalog.Filter{}.Validate())
	assert.NoError(t, catalog.Filter{MinPrice: ptr(1.0), MaxPrice: ptr(1.0)}.Validate())

	err := catalog.Filter{MinPrice: ptr(10.0), MaxPrice: ptr(5.0)}.Validate()
	assert.ErrorIs(t, err, catalog.ErrInvalidProduct)

	var verr catalog.ValidationError
	require.True(t, errors.As(catalog.Filter{MaxPrice: ptr(-1.0)}.Validate(), &verr))
	assert.True(t, verr.Has("maxPrice"))
}

func TestFilterValidate_NonFinite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter catalog.Filter
		field  string
	}{
		{name: "NaN min", filter: catalog.Filter{MinPrice: ptr(math.NaN())}, field: "minPrice"},
		{name: "NaN max with min", filter: catalog.Filter{MinPrice: ptr(1.0), MaxPrice: ptr(math.NaN())}, field: "maxPrice"},
		{name: "+Inf max", filter: catalog.Filter{MaxPrice: ptr(math.Inf(1))}, field: "maxPrice"},
		{name: "-Inf min", filter: catalog.Filter{MinPrice: ptr(math.Inf(-1))}, field: "minPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var verr catalog.ValidationError
			require.True(t, errors.As(tt.filter.Validate(), &verr))
			assert.True(t, verr.Has(tt.field))
		})
	}
}

func TestPageNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   catalog.Page
		want catalog.Page
	}{
		{name: "defaults", in: catalog.Page{}, want: catalog.Page{Offset: 0, Limit: catalog.DefaultLimit}},
		{name: "negative offset", in: catalog.Page{Offset: -5, Limit: 10}, want: catalog.Page{Offset: 0, Limit: 10}},
		{name: "negative limit", in: catalog.Page{Offset: 3, Limit: -1}, want: catalog.Page{Offset: 3, Limit: catalog.DefaultLimit}},
		{name: "capped", in: catalog.Page{Limit: 5000}, want: catalog.Page{Limit: catalog.MaxLimit}},
		{name: "at cap", in: catalog.Page{Limit: catalog.MaxLimit}, want: catalog.Page{Limit: catalog.MaxLimit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestProductInStock(t *testing.T) {
	t.Parallel()

	assert.False(t, catalog.Product{Stock: 0}.InStock())
	assert.True(t, catalog.Product{Stock: 5}.InStock())
}
