// Package feed exports the product catalog in the Google Merchant Center
// product schema and pushes it through the Content API for Shopping.
//
// Export maps products with a Mapper: availability follows stock, the price
// is formatted at the currency's standard scale and categories are resolved
// through an optional YAML map. Push splits items into batches, submits a
// bounded number of batches concurrently behind a rate limiter and reports
// per item, so a caller can retry only what was rejected:
//
//	report, err := adapter.Sync(ctx)
//	var pf *feed.PartialFailure
//	switch {
//	case errors.As(err, &pf):
//		retry(pf.IDs())
//	case errors.Is(err, feed.ErrUpstream):
//		// nothing reached the API
//	}
package feed
