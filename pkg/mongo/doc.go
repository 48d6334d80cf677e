// Package mongo manages the catalog's single pooled connection to MongoDB.
//
// A Manager moves through an explicit lifecycle:
//
//	Uninitialized -> Connecting -> Ready -> Closed
//	                     |
//	                     v
//	                   Failed -> Connecting (new attempt)
//
// Connect is bounded by Config.ConnectTimeout for both server selection and
// the initial connection, and verifies the session with a ping before the
// handle is handed out. Failures come back as *ConnectionError, classified as
// timeout, auth or network, and match ErrConnection with errors.Is. The
// manager never retries on its own; the caller decides.
//
// # Usage
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	m := mongo.NewManager(cfg, mongo.WithLogger(log))
//	if _, err := m.Connect(ctx); err != nil {
//		return err
//	}
//	defer m.Close(context.Background())
//
//	coll, err := m.Collection("productos")
//
// Healthcheck wraps Manager.Ping for readiness probes.
package mongo
