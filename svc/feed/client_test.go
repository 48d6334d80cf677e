package feed_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/feed"
)

type batchEntry struct {
	BatchID    int           `json:"batchId"`
	MerchantID string        `json:"merchantId"`
	Method     string        `json:"method"`
	Product    feed.FeedItem `json:"product"`
}

func decodeBatch(t *testing.T, r *http.Request) []batchEntry {
	t.Helper()
	var body struct {
		Entries []batchEntry `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body.Entries
}

func noBackoff() feed.Backoff {
	return feed.ExponentialBackoff{InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
}

func sampleItems() []feed.FeedItem {
	return []feed.FeedItem{
		{OfferID: "p1", Title: "Uno", Price: feed.Price{Value: "1.00", Currency: "USD"}},
		{OfferID: "p2", Title: "Dos", Price: feed.Price{Value: "2.00", Currency: "USD"}},
		{OfferID: "p3", Title: "Tres", Price: feed.Price{Value: "3.00", Currency: "USD"}},
	}
}

func TestContentClient_PerItemResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/content/v2.1/products/batch", r.URL.Path)

		entries := decodeBatch(t, r)
		require.Len(t, entries, 3)
		for i, e := range entries {
			assert.Equal(t, i, e.BatchID)
			assert.Equal(t, "12345", e.MerchantID)
			assert.Equal(t, "insert", e.Method)
		}
		assert.Equal(t, "p2", entries[1].Product.OfferID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"kind": "content#productsCustomBatchResponse",
			"entries": [
				{"batchId": 2, "product": {"offerId": "p3"}},
				{"batchId": 0, "product": {"offerId": "p1"}},
				{"batchId": 1, "errors": {"code": 400, "message": "bad item",
					"errors": [{"reason": "invalid", "message": "[price] value is invalid"}]}}
			]
		}`))
	}))
	t.Cleanup(srv.Close)

	c := feed.NewContentClient("12345",
		feed.WithHTTPClient(srv.Client()),
		feed.WithEndpoint(srv.URL+"/content/v2.1/"),
	)

	results, err := c.SubmitBatch(context.Background(), sampleItems())
	require.NoError(t, err)
	assert.Equal(t, []feed.ItemResult{
		{ID: "p1", OK: true},
		{ID: "p2", Reason: "invalid: [price] value is invalid"},
		{ID: "p3", OK: true},
	}, results)
}

func TestContentClient_RetriesTransientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"entries":[{"batchId":0},{"batchId":1},{"batchId":2}]}`))
	}))
	t.Cleanup(srv.Close)

	c := feed.NewContentClient("1", feed.WithHTTPClient(srv.Client()), feed.WithEndpoint(srv.URL), feed.WithBackoff(noBackoff()))

	results, err := c.SubmitBatch(context.Background(), sampleItems())
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, int32(3), calls.Load())
}

func TestContentClient_GivesUp(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := feed.NewContentClient("1",
		feed.WithHTTPClient(srv.Client()),
		feed.WithEndpoint(srv.URL),
		feed.WithBackoff(noBackoff()),
		feed.WithMaxRetries(2),
		feed.WithCircuitBreaker(nil),
	)

	_, err := c.SubmitBatch(context.Background(), sampleItems())
	assert.ErrorIs(t, err, feed.ErrRequestFailed)
	assert.Equal(t, int32(3), calls.Load())
}

func TestContentClient_PermanentError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":{"code":401,"message":"Invalid Credentials"}}`, http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	c := feed.NewContentClient("1", feed.WithHTTPClient(srv.Client()), feed.WithEndpoint(srv.URL), feed.WithBackoff(noBackoff()))

	_, err := c.SubmitBatch(context.Background(), sampleItems())
	assert.ErrorIs(t, err, feed.ErrPermanent)
	assert.Equal(t, int32(1), calls.Load())
}

func TestContentClient_CircuitBreaker(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	breaker := feed.NewCircuitBreaker(2, 1, time.Hour)
	c := feed.NewContentClient("1",
		feed.WithHTTPClient(srv.Client()),
		feed.WithEndpoint(srv.URL),
		feed.WithBackoff(noBackoff()),
		feed.WithMaxRetries(1),
		feed.WithCircuitBreaker(breaker),
	)

	_, err := c.SubmitBatch(context.Background(), sampleItems())
	assert.ErrorIs(t, err, feed.ErrRequestFailed)
	assert.Equal(t, feed.CircuitOpen, breaker.State())

	_, err = c.SubmitBatch(context.Background(), sampleItems())
	assert.ErrorIs(t, err, feed.ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load(), "open circuit makes no request")
}

func TestContentClient_NotConfigured(t *testing.T) {
	t.Parallel()

	_, err := feed.NewContentClient("").SubmitBatch(context.Background(), sampleItems())
	assert.ErrorIs(t, err, feed.ErrNotConfigured)

	results, err := feed.NewContentClient("1").SubmitBatch(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestContentClient_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := feed.NewContentClient("1",
		feed.WithHTTPClient(srv.Client()),
		feed.WithEndpoint(srv.URL),
		feed.WithBackoff(feed.ExponentialBackoff{InitialInterval: time.Hour, MaxInterval: time.Hour}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.SubmitBatch(ctx, sampleItems())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCircuitBreaker_Recovers(t *testing.T) {
	t.Parallel()

	cb := feed.NewCircuitBreaker(1, 1, 20*time.Millisecond)
	assert.True(t, cb.Allow())

	cb.RecordFailure()
	assert.Equal(t, feed.CircuitOpen, cb.State())
	assert.False(t, cb.Allow())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, feed.CircuitHalfOpen, cb.State())
	assert.True(t, cb.Allow())

	cb.RecordSuccess()
	assert.Equal(t, feed.CircuitClosed, cb.State())
	assert.Equal(t, "closed", cb.State().String())
}

func TestCircuitBreaker_SingleHalfOpenTrial(t *testing.T) {
	t.Parallel()

	cb := feed.NewCircuitBreaker(1, 2, 10*time.Millisecond)
	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)

	assert.True(t, cb.Allow(), "first trial")
	assert.False(t, cb.Allow(), "second caller waits for the trial")

	cb.Release()
	assert.True(t, cb.Allow(), "released trial frees the slot")

	cb.RecordSuccess()
	assert.Equal(t, feed.CircuitHalfOpen, cb.State())
	assert.True(t, cb.Allow(), "next trial after a success")
	cb.RecordSuccess()
	assert.Equal(t, feed.CircuitClosed, cb.State())
	assert.True(t, cb.Allow())
	assert.True(t, cb.Allow())
}

func TestContentClient_CanceledCallDoesNotTripBreaker(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	breaker := feed.NewCircuitBreaker(1, 1, time.Hour)
	c := feed.NewContentClient("1",
		feed.WithHTTPClient(srv.Client()),
		feed.WithEndpoint(srv.URL),
		feed.WithBackoff(noBackoff()),
		feed.WithCircuitBreaker(breaker),
	)

	for range 3 {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		_, err := c.SubmitBatch(ctx, sampleItems())
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
	assert.Equal(t, feed.CircuitClosed, breaker.State())
}

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()

	b := feed.ExponentialBackoff{InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second, Multiplier: 2}
	assert.Zero(t, b.NextInterval(0))
	assert.Equal(t, 100*time.Millisecond, b.NextInterval(1))
	assert.Equal(t, 200*time.Millisecond, b.NextInterval(2))
	assert.Equal(t, 400*time.Millisecond, b.NextInterval(3))
	assert.Equal(t, time.Second, b.NextInterval(10))

	jittered := feed.ExponentialBackoff{InitialInterval: 100 * time.Millisecond, JitterFactor: 0.5}
	for range 20 {
		d := jittered.NextInterval(1)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}
