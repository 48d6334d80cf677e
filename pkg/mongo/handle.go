package mongo

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Handle is one live session to the document store. The driver client behind
// it is a connection pool and is safe to share between goroutines.
type Handle struct {
	client         *mongo.Client
	db             *mongo.Database
	createdAt      time.Time
	connectTimeout time.Duration

	state     atomic.Int32
	closeOnce sync.Once
	closeErr  error
}

func newHandle(client *mongo.Client, database string, connectTimeout time.Duration) *Handle {
	h := &Handle{
		client:         client,
		db:             client.Database(database),
		createdAt:      time.Now().UTC(),
		connectTimeout: connectTimeout,
	}
	h.state.Store(int32(StateConnecting))
	return h
}

// State reports the handle's lifecycle position.
func (h *Handle) State() State { return State(h.state.Load()) }

// Ready reports whether the handle can serve operations.
func (h *Handle) Ready() bool { return h.State() == StateReady }

// CreatedAt is when the handle was created.
func (h *Handle) CreatedAt() time.Time { return h.createdAt }

// ConnectTimeout is the bound applied to server selection and initial connect.
func (h *Handle) ConnectTimeout() time.Duration { return h.connectTimeout }

// Client returns the underlying driver client.
func (h *Handle) Client() *mongo.Client { return h.client }

// Database returns the database the handle is bound to.
func (h *Handle) Database() *mongo.Database { return h.db }

// Ping runs the ping command against the handle's database.
func (h *Handle) Ping(ctx context.Context) error {
	if !h.Ready() {
		return ErrNotConnected
	}
	start := time.Now()
	if err := h.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return classify(err, time.Since(start), h.connectTimeout)
	}
	return nil
}

// Close disconnects the client. Calling it more than once is safe and
// returns the result of the first call.
func (h *Handle) Close(ctx context.Context) error {
	h.closeOnce.Do(func() {
		h.state.Store(int32(StateClosed))
		h.closeErr = h.client.Disconnect(ctx)
	})
	return h.closeErr
}

func (h *Handle) markReady()  { h.state.Store(int32(StateReady)) }
func (h *Handle) markFailed() { h.state.Store(int32(StateFailed)) }
