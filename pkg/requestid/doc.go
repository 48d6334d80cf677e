// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a well-formed X-Request-ID header sent by the client or
// generates a UUIDv4, stores it in the request context and echoes it in the
// response. LoggerExtractor plugs the id into pkg/logger so every record
// logged with the request context carries it:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid
