// Package api assembles the service router: shared middleware, the health
// and metrics endpoints, and the productos and merchant modules.
//
//	r := api.Router(api.Options{
//		Logger:   log,
//		Metrics:  m,
//		Health:   api.HealthCheck{Ping: manager.Ping, Count: repo.Count},
//		Products: productos.NewService(repo, errHandler),
//		Merchant: merchant.NewService(adapter, merchant.WithErrorHandler(errHandler)),
//	})
package api
