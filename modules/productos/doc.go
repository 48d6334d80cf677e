// Package productos serves the product catalog over HTTP.
//
// Service.Handle returns a chi router meant to be mounted at /productos:
//
//	GET    /        list with category, minPrice, maxPrice, offset, limit
//	GET    /{id}    one product
//	POST   /        create from a draft
//	PUT    /{id}    partial update
//	DELETE /{id}    remove
//
// Handlers only bind, call the repository and render. Store and validation
// errors flow to the injected error handler; ErrorRules lists the catalog
// error translations for handler.NewErrorHandler.
package productos
