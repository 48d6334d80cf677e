// Package merchant exposes the merchant feed over HTTP, mounted at
// /merchant:
//
//	POST /sync   export the catalog and push it to the feed API
//	GET  /feed   the exported feed items, without pushing
//
// A sync answers 200 with the push report, or 207 with the same report when
// the API rejected some items. Sync requests can be throttled with a
// rate limit middleware passed through WithSyncMiddleware.
package merchant
