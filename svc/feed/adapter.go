package feed

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/logger"
	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/catalog"
)

// Source streams the catalog. *catalog.Repository satisfies it.
type Source interface {
	All(ctx context.Context, fn func(catalog.Product) error) error
}

// Limiter gates batch submissions. *ratelimit.FixedWindow satisfies it.
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// Recorder observes finished pushes.
type Recorder interface {
	RecordFeedPush(succeeded, failed int, elapsed time.Duration, err error)
}

const limiterKey = "merchant:batch"

// Adapter exports the catalog and pushes it to the feed API.
type Adapter struct {
	source      Source
	mapper      *Mapper
	client      Client
	limiter     Limiter
	recorder    Recorder
	batchSize   int
	concurrency int
	log         *slog.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithClient sets the feed API client. Without one, pushes fail with
// ErrNotConfigured while exports keep working.
func WithClient(c Client) AdapterOption {
	return func(a *Adapter) { a.client = c }
}

func WithLimiter(l Limiter) AdapterOption {
	return func(a *Adapter) { a.limiter = l }
}

func WithRecorder(r Recorder) AdapterOption {
	return func(a *Adapter) { a.recorder = r }
}

// WithBatchSize caps items per API call at 1000.
func WithBatchSize(n int) AdapterOption {
	return func(a *Adapter) {
		if n > 0 {
			a.batchSize = min(n, maxBatchSize)
		}
	}
}

func WithConcurrency(n int) AdapterOption {
	return func(a *Adapter) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

// NewAdapter creates an adapter reading products from source.
func NewAdapter(source Source, mapper *Mapper, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		source:      source,
		mapper:      mapper,
		batchSize:   defaultBatchSize,
		concurrency: defaultConcurrency,
		log:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With(logger.Component("feed"))
	return a
}

// Configured reports whether pushes can reach the feed API.
func (a *Adapter) Configured() bool { return a.client != nil }

// ExportCatalog maps every product of the catalog, in id order.
func (a *Adapter) ExportCatalog(ctx context.Context) ([]FeedItem, error) {
	var items []FeedItem
	err := a.source.All(ctx, func(p catalog.Product) error {
		items = append(items, a.mapper.Map(p))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []FeedItem{}
	}
	return items, nil
}

// PushCatalog submits items in batches and reports per item.
//
// It returns a nil error when every item was accepted, a *PartialFailure
// listing only the rejected items when some were accepted or rejected by the
// API, and an error matching ErrUpstream when no batch reached the API. The
// report is filled in all three cases.
func (a *Adapter) PushCatalog(ctx context.Context, items []FeedItem) (Report, error) {
	start := time.Now()
	report, err := a.push(ctx, items)
	if a.recorder != nil {
		a.recorder.RecordFeedPush(report.Succeeded, len(report.Failed), time.Since(start), err)
	}
	return report, err
}

// Sync exports the catalog and pushes it.
func (a *Adapter) Sync(ctx context.Context) (Report, error) {
	if a.client == nil {
		return Report{Failed: []ItemFailure{}}, ErrNotConfigured
	}
	items, err := a.ExportCatalog(ctx)
	if err != nil {
		return Report{Failed: []ItemFailure{}}, err
	}
	return a.PushCatalog(ctx, items)
}

type batchOutcome struct {
	results []ItemResult
	err     error
}

func (a *Adapter) push(ctx context.Context, items []FeedItem) (Report, error) {
	report := Report{Failed: []ItemFailure{}}
	if a.client == nil {
		return report, ErrNotConfigured
	}
	if len(items) == 0 {
		return report, nil
	}

	batches := slices.Collect(slices.Chunk(items, a.batchSize))
	outcomes := make([]batchOutcome, len(batches))

	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for i, batch := range batches {
		g.Go(func() error {
			outcomes[i] = a.submit(ctx, batch)
			return nil
		})
	}
	_ = g.Wait()

	var (
		batchErrs []error
		rejected  int
	)
	for i, out := range outcomes {
		if out.err != nil {
			batchErrs = append(batchErrs, out.err)
			for _, item := range batches[i] {
				report.Failed = append(report.Failed, ItemFailure{ID: item.OfferID, Reason: reasonFor(out.err)})
			}
			a.log.WarnContext(ctx, "feed batch failed",
				logger.Count("items", len(batches[i])),
				logger.Error(out.err),
			)
			continue
		}
		for _, r := range out.results {
			if r.OK {
				report.Succeeded++
				continue
			}
			rejected++
			report.Failed = append(report.Failed, ItemFailure{ID: r.ID, Reason: r.Reason})
		}
	}

	a.log.InfoContext(ctx, "feed push finished",
		logger.Count("succeeded", report.Succeeded),
		logger.Count("failed", len(report.Failed)),
		logger.Count("batches", len(batches)),
	)

	switch {
	case len(batchErrs) == len(batches):
		return report, errors.Join(append([]error{ErrUpstream}, batchErrs...)...)
	case len(report.Failed) > 0:
		return report, &PartialFailure{Failed: report.Failed}
	default:
		return report, nil
	}
}

func (a *Adapter) submit(ctx context.Context, batch []FeedItem) batchOutcome {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, limiterKey); err != nil {
			return batchOutcome{err: err}
		}
	}
	results, err := a.client.SubmitBatch(ctx, batch)
	if err != nil {
		return batchOutcome{err: err}
	}
	if len(results) != len(batch) {
		results = fillMissing(batch, results)
	}
	return batchOutcome{results: results}
}

// fillMissing aligns results to batch by id, marking absent items failed.
func fillMissing(batch []FeedItem, results []ItemResult) []ItemResult {
	byID := make(map[string]ItemResult, len(results))
	for _, r := range results {
		byID[r.ID] = r
	}
	out := make([]ItemResult, len(batch))
	for i, item := range batch {
		if r, ok := byID[item.OfferID]; ok {
			out[i] = r
			continue
		}
		out[i] = ItemResult{ID: item.OfferID, Reason: "missing from batch response"}
	}
	return out
}

// reasonFor returns a caller-safe reason for a failed batch.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, ErrCircuitOpen):
		return "feed API circuit open"
	case errors.Is(err, ErrPermanent):
		return "batch rejected by feed API"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled before submission"
	default:
		return "feed API unavailable"
	}
}
