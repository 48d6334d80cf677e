package catalog_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/mongo"
	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/catalog"
)

func TestRepository_NotConnected(t *testing.T) {
	t.Parallel()

	m := mongo.NewManager(mongo.Config{ConnectionURL: "mongodb://127.0.0.1:1", Database: "autopartes"})
	repo := catalog.NewRepository(m, catalog.Config{})
	ctx := context.Background()

	_, err := repo.List(ctx, catalog.Filter{}, catalog.Page{})
	assert.ErrorIs(t, err, catalog.ErrNotConnected)

	_, err = repo.Count(ctx, catalog.Filter{})
	assert.ErrorIs(t, err, catalog.ErrNotConnected)

	_, err = repo.EstimatedCount(ctx)
	assert.ErrorIs(t, err, catalog.ErrNotConnected)

	_, err = repo.Get(ctx, "65f000000000000000000001")
	assert.ErrorIs(t, err, catalog.ErrNotConnected)

	_, err = repo.Create(ctx, catalog.Draft{Name: "x"})
	assert.ErrorIs(t, err, catalog.ErrNotConnected)

	_, err = repo.Update(ctx, "65f000000000000000000001", catalog.Patch{})
	assert.ErrorIs(t, err, catalog.ErrNotConnected)

	assert.ErrorIs(t, repo.Delete(ctx, "65f000000000000000000001"), catalog.ErrNotConnected)
	assert.ErrorIs(t, repo.All(ctx, func(catalog.Product) error { return nil }), catalog.ErrNotConnected)
	assert.ErrorIs(t, repo.EnsureIndexes(ctx), catalog.ErrNotConnected)
}

func TestRepository_ValidationBeforeStore(t *testing.T) {
	t.Parallel()

	m := mongo.NewManager(mongo.Config{ConnectionURL: "mongodb://127.0.0.1:1", Database: "autopartes"})
	repo := catalog.NewRepository(m, catalog.Config{})

	_, err := repo.Create(context.Background(), catalog.Draft{Name: "x", Price: -1})
	assert.ErrorIs(t, err, catalog.ErrInvalidProduct)
}

// newTestRepository connects to MONGODB_TEST_URI and returns a repository on
// a collection unique to the test.
func newTestRepository(t *testing.T) *catalog.Repository {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	m := mongo.NewManager(mongo.Config{
		ConnectionURL:  uri,
		Database:       "productos_test",
		ConnectTimeout: 5 * time.Second,
		MaxPoolSize:    10,
	})
	ctx := context.Background()
	_, err := m.Connect(ctx)
	require.NoError(t, err)

	name := fmt.Sprintf("productos_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		if coll, err := m.Collection(name); err == nil {
			_ = coll.Drop(context.Background())
		}
		_ = m.Close(context.Background())
	})

	repo := catalog.NewRepository(m, catalog.Config{Collection: name, OperationTimeout: 5 * time.Second})
	require.NoError(t, repo.EnsureIndexes(ctx))
	return repo
}

func TestRepository_CreateGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	d := catalog.Draft{
		Name:        "Pastillas de freno",
		Description: "Juego delantero",
		Price:       35.9,
		Category:    "frenos",
		Stock:       4,
		Images:      []string{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"},
	}
	created, err := repo.Create(ctx, d)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, d.Name, got.Name)
	assert.Equal(t, d.Description, got.Description)
	assert.Equal(t, d.Price, got.Price)
	assert.Equal(t, d.Category, got.Category)
	assert.Equal(t, d.Stock, got.Stock)
	assert.Equal(t, d.Images, got.Images)
}

func TestRepository_InvalidDraftNotPersisted(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, catalog.Draft{Name: "Aceite", Price: -3, Stock: 1})
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)

	_, err = repo.Create(ctx, catalog.Draft{Name: "Aceite", Price: 3, Stock: -1})
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)

	n, err := repo.Count(ctx, catalog.Filter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.EstimatedCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRepository_DeleteThenGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	p, err := repo.Create(ctx, catalog.Draft{Name: "Correa", Price: 20, Stock: 1})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err = repo.Get(ctx, p.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), catalog.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "not-an-id"), catalog.ErrNotFound)
}

func TestRepository_Update(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	p, err := repo.Create(ctx, catalog.Draft{Name: "Radiador", Price: 100, Stock: 2, Category: "refrigeracion"})
	require.NoError(t, err)

	patch := catalog.Patch{Price: ptr(90.0), Stock: ptr(int64(0))}

	first, err := repo.Update(ctx, p.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, 90.0, first.Price)
	assert.Equal(t, int64(0), first.Stock)
	assert.Equal(t, p.Name, first.Name)
	assert.Equal(t, p.ID, first.ID)
	assert.Equal(t, p.CreatedAt, first.CreatedAt)

	second, err := repo.Update(ctx, p.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, first, second, "re-applying the same patch yields the same product")

	_, err = repo.Update(ctx, p.ID, catalog.Patch{Price: ptr(-1.0)})
	assert.ErrorIs(t, err, catalog.ErrInvalidProduct)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.Price, "rejected patch must not be written")

	_, err = repo.Update(ctx, "65f000000000000000000001", patch)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestRepository_ListPagination(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := range 7 {
		category := "motor"
		if i%3 == 0 {
			category = "suspension"
		}
		_, err := repo.Create(ctx, catalog.Draft{
			Name:     fmt.Sprintf("pieza-%d", i),
			Price:    float64(i * 10),
			Stock:    int64(i),
			Category: category,
		})
		require.NoError(t, err)
	}

	f := catalog.Filter{Category: "motor"}
	const n = 2

	all, err := repo.List(ctx, f, catalog.Page{Limit: 2 * n})
	require.NoError(t, err)
	require.Len(t, all, 2*n)

	page1, err := repo.List(ctx, f, catalog.Page{Offset: 0, Limit: n})
	require.NoError(t, err)
	page2, err := repo.List(ctx, f, catalog.Page{Offset: n, Limit: n})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, p := range page1 {
		seen[p.ID] = true
	}
	for _, p := range page2 {
		assert.False(t, seen[p.ID], "pages must be disjoint")
	}
	assert.Equal(t, all, append(page1, page2...))

	total, err := repo.Count(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	priced, err := repo.List(ctx, catalog.Filter{MinPrice: ptr(20.0), MaxPrice: ptr(40.0)}, catalog.Page{})
	require.NoError(t, err)
	require.Len(t, priced, 3)
	for _, p := range priced {
		assert.GreaterOrEqual(t, p.Price, 20.0)
		assert.LessOrEqual(t, p.Price, 40.0)
	}

	var streamed int
	require.NoError(t, repo.All(ctx, func(catalog.Product) error {
		streamed++
		return nil
	}))
	assert.Equal(t, 7, streamed)
}

func TestRepository_GetMalformedID(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), "xyz")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
