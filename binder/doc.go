// Package binder fills request structs from path parameters, the query
// string and JSON bodies. Binders are plain functions and compose through
// handler.WithBinders:
//
//	type updateRequest struct {
//		ID    string        `path:"id"`
//		Patch catalog.Patch `json:"-"`
//	}
//
// Every failure matches one of the package's sentinel errors; IsBindError
// reports whether an error came from a binder.
package binder
