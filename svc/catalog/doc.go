// Package catalog implements the product repository on top of the MongoDB
// connection manager.
//
// Every operation resolves the collection through the manager on each call,
// so a repository built before the manager is Ready simply answers
// ErrNotConnected until it is. Store calls run on a context detached from the
// caller's cancellation and bounded by Config.OperationTimeout: a client that
// goes away does not abort a write half way.
//
// Deletes are hard deletes. Listing is ordered by _id, which makes offset
// pagination stable for a fixed data set.
package catalog
