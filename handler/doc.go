// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a Context and a request value filled by binders,
// and returns a Response. Wrap turns it into an http.HandlerFunc; binding
// and rendering failures go to the configured ErrorHandler:
//
//	h := handler.HandlerFunc[handler.Context, getRequest](
//		func(ctx handler.Context, req getRequest) handler.Response {
//			p, err := repo.Get(ctx, req.ID)
//			if err != nil {
//				return handler.Error(err)
//			}
//			return handler.JSON(p)
//		},
//	)
//	r.Get("/{id}", handler.Wrap(h,
//		handler.WithBinders[handler.Context, getRequest](binder.Path(nil)),
//		handler.WithErrorHandler[handler.Context, getRequest](errHandler),
//	))
//
// JSON renders the envelope {"data", "meta"}; JSONBody renders a single
// resource bare. Errors always use {"error": {...}}. NewErrorHandler
// translates errors into that envelope through ordered ErrorRules; anything
// unmatched becomes a generic 500 and only the log sees the underlying error.
package handler
