package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/logger"
)

// Store resolves collections of the active database. *mongo.Manager from
// pkg/mongo satisfies it.
type Store interface {
	Collection(name string) (*mongo.Collection, error)
}

// Repository provides CRUD over the products collection.
type Repository struct {
	store      Store
	collection string
	timeout    time.Duration
	log        *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRepository creates a repository bound to cfg.Collection.
func NewRepository(store Store, cfg Config, opts ...Option) *Repository {
	r := &Repository{
		store:      store,
		collection: cfg.Collection,
		timeout:    cfg.OperationTimeout,
		log:        logger.Discard(),
	}
	if r.collection == "" {
		r.collection = defaultCollection
	}
	if r.timeout <= 0 {
		r.timeout = defaultOperationTimeout
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(logger.Component("catalog"))
	return r
}

// List returns one page of products matching f, ordered by id.
func (r *Repository) List(ctx context.Context, f Filter, p Page) ([]Product, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	coll, err := r.coll()
	if err != nil {
		return nil, err
	}
	p = p.Normalize()

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(p.Offset).
		SetLimit(p.Limit)

	cur, err := coll.Find(ctx, f.bson(), opts)
	if err != nil {
		return nil, r.storeErr(ctx, "list", err)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, r.storeErr(ctx, "list", err)
	}

	products := make([]Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.product())
	}
	return products, nil
}

// Count returns the number of products matching f.
func (r *Repository) Count(ctx context.Context, f Filter) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	coll, err := r.coll()
	if err != nil {
		return 0, err
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	n, err := coll.CountDocuments(ctx, f.bson())
	if err != nil {
		return 0, r.storeErr(ctx, "count", err)
	}
	return n, nil
}

// EstimatedCount returns the collection size from its metadata without
// scanning documents.
func (r *Repository) EstimatedCount(ctx context.Context) (int64, error) {
	coll, err := r.coll()
	if err != nil {
		return 0, err
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	n, err := coll.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, r.storeErr(ctx, "estimated count", err)
	}
	return n, nil
}

// Get returns the product with the given id. Unknown and malformed ids both
// yield ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (Product, error) {
	coll, err := r.coll()
	if err != nil {
		return Product{}, err
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return Product{}, ErrNotFound
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	var doc document
	if err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrNotFound
		}
		return Product{}, r.storeErr(ctx, "get", err)
	}
	return doc.product(), nil
}

// Create validates the draft and inserts it. Nothing is written when the
// draft is invalid.
func (r *Repository) Create(ctx context.Context, d Draft) (Product, error) {
	if err := d.Validate(); err != nil {
		return Product{}, err
	}
	coll, err := r.coll()
	if err != nil {
		return Product{}, err
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	doc := newDocument(d, now())
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return Product{}, r.storeErr(ctx, "create", err)
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return Product{}, errors.Join(ErrStore, errors.New("unexpected inserted id type"))
	}
	doc.ID = oid

	p := doc.product()
	r.log.InfoContext(ctx, "product created", logger.ProductID(p.ID))
	return p, nil
}

// Update merges the patch into the stored product, re-validates the result
// and writes the changed fields. A patch that changes nothing returns the
// stored product as is.
func (r *Repository) Update(ctx context.Context, id string, patch Patch) (Product, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}

	merged, changed := patch.Apply(current)
	if err := validate(merged.Name, merged.Price, merged.Stock, merged.Images); err != nil {
		return Product{}, err
	}
	if !changed {
		return current, nil
	}

	coll, err := r.coll()
	if err != nil {
		return Product{}, err
	}
	oid, _ := bson.ObjectIDFromHex(current.ID)

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	set := setFields(patch, merged)
	set = append(set, bson.E{Key: "updated_at", Value: now()})

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc document
	err = coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrNotFound
		}
		return Product{}, r.storeErr(ctx, "update", err)
	}

	r.log.InfoContext(ctx, "product updated", logger.ProductID(current.ID))
	return doc.product(), nil
}

// Delete removes the product permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	coll, err := r.coll()
	if err != nil {
		return err
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return r.storeErr(ctx, "delete", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	r.log.InfoContext(ctx, "product deleted", logger.ProductID(id))
	return nil
}

// All streams every product in id order through fn. Iteration stops at the
// first error returned by fn.
func (r *Repository) All(ctx context.Context, fn func(Product) error) error {
	coll, err := r.coll()
	if err != nil {
		return err
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return r.storeErr(ctx, "all", err)
	}
	defer cur.Close(context.WithoutCancel(ctx))

	for cur.Next(ctx) {
		var doc document
		if err := cur.Decode(&doc); err != nil {
			return r.storeErr(ctx, "all", err)
		}
		if err := fn(doc.product()); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return r.storeErr(ctx, "all", err)
	}
	return nil
}

// EnsureIndexes creates the secondary indexes used by List filters.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.coll()
	if err != nil {
		return err
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	})
	if err != nil {
		return r.storeErr(ctx, "ensure indexes", err)
	}
	return nil
}

func (r *Repository) coll() (*mongo.Collection, error) {
	return r.store.Collection(r.collection)
}

// opContext detaches ctx from the caller's cancellation and bounds it with
// the operation timeout. Values such as the request id are kept.
func (r *Repository) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
}

func (r *Repository) storeErr(ctx context.Context, op string, err error) error {
	r.log.ErrorContext(ctx, "store operation failed",
		slog.String("op", op),
		logger.Error(err),
	)
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) || errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrUnavailable, err)
	}
	return errors.Join(ErrStore, err)
}

// setFields returns the $set document for the fields carried by patch.
func setFields(patch Patch, merged Product) bson.D {
	set := bson.D{}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: merged.Name})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: merged.Description})
	}
	if patch.Price != nil {
		set = append(set, bson.E{Key: "price", Value: merged.Price})
	}
	if patch.Category != nil {
		set = append(set, bson.E{Key: "category", Value: merged.Category})
	}
	if patch.Stock != nil {
		set = append(set, bson.E{Key: "stock", Value: merged.Stock})
	}
	if patch.Images != nil {
		images := merged.Images
		if images == nil {
			images = []string{}
		}
		set = append(set, bson.E{Key: "images", Value: images})
	}
	return set
}
