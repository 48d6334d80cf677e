package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client submits one batch of items and reports a result per item. An error
// means the batch as a whole did not go through.
type Client interface {
	SubmitBatch(ctx context.Context, items []FeedItem) ([]ItemResult, error)
}

// ContentClient talks to the Content API for Shopping products/batch
// endpoint. The HTTP client is expected to carry OAuth2 credentials, see
// NewGoogleHTTPClient.
type ContentClient struct {
	httpClient *http.Client
	endpoint   string
	merchantID string
	timeout    time.Duration
	maxRetries int
	backoff    Backoff
	breaker    *CircuitBreaker
}

// ClientOption configures a ContentClient.
type ClientOption func(*ContentClient)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(cc *ContentClient) {
		if c != nil {
			cc.httpClient = c
		}
	}
}

func WithEndpoint(endpoint string) ClientOption {
	return func(cc *ContentClient) {
		if endpoint != "" {
			cc.endpoint = strings.TrimRight(endpoint, "/")
		}
	}
}

// WithRequestTimeout bounds each HTTP attempt.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(cc *ContentClient) {
		if d > 0 {
			cc.timeout = d
		}
	}
}

func WithMaxRetries(n int) ClientOption {
	return func(cc *ContentClient) {
		if n >= 0 {
			cc.maxRetries = n
		}
	}
}

func WithBackoff(b Backoff) ClientOption {
	return func(cc *ContentClient) {
		if b != nil {
			cc.backoff = b
		}
	}
}

func WithCircuitBreaker(cb *CircuitBreaker) ClientOption {
	return func(cc *ContentClient) {
		cc.breaker = cb
	}
}

// NewContentClient creates a client for the given merchant account.
func NewContentClient(merchantID string, opts ...ClientOption) *ContentClient {
	cc := &ContentClient{
		httpClient: http.DefaultClient,
		endpoint:   "https://shoppingcontent.googleapis.com/content/v2.1",
		merchantID: merchantID,
		timeout:    30 * time.Second,
		maxRetries: 3,
		backoff:    DefaultBackoff(),
		breaker:    NewCircuitBreaker(5, 1, 30*time.Second),
	}
	for _, opt := range opts {
		opt(cc)
	}
	return cc
}

type batchRequest struct {
	Entries []batchRequestEntry `json:"entries"`
}

type batchRequestEntry struct {
	BatchID    int      `json:"batchId"`
	MerchantID string   `json:"merchantId"`
	Method     string   `json:"method"`
	Product    FeedItem `json:"product"`
}

type batchResponse struct {
	Entries []batchResponseEntry `json:"entries"`
}

type batchResponseEntry struct {
	BatchID int          `json:"batchId"`
	Errors  *entryErrors `json:"errors,omitempty"`
}

type entryErrors struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []entryError `json:"errors"`
}

type entryError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *entryErrors) reason() string {
	if len(e.Errors) > 0 {
		first := e.Errors[0]
		if first.Reason != "" && first.Message != "" {
			return first.Reason + ": " + first.Message
		}
		if first.Message != "" {
			return first.Message
		}
		return first.Reason
	}
	if e.Message != "" {
		return e.Message
	}
	return "rejected"
}

// SubmitBatch inserts items with one custombatch call. Network failures,
// 408, 425, 429 and 5xx responses are retried with backoff; other statuses
// fail the batch immediately.
func (c *ContentClient) SubmitBatch(ctx context.Context, items []FeedItem) ([]ItemResult, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if c.merchantID == "" {
		return nil, ErrNotConfigured
	}
	req := batchRequest{Entries: make([]batchRequestEntry, len(items))}
	for i, item := range items {
		req.Entries[i] = batchRequestEntry{
			BatchID:    i,
			MerchantID: c.merchantID,
			Method:     "insert",
			Product:    item,
		}
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal batch: %w", err)
	}

	if c.breaker != nil && !c.breaker.Allow() {
		return nil, ErrCircuitOpen
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				c.release()
				return nil, errors.Join(lastErr, ctx.Err())
			case <-time.After(c.backoff.NextInterval(attempt)):
			}
		}

		resp, status, err := c.post(ctx, payload)
		if err != nil && ctx.Err() != nil {
			// Canceled by the caller, not an upstream failure.
			c.release()
			return nil, errors.Join(err, ctx.Err())
		}
		c.record(err)
		if err == nil {
			return mapResults(items, resp), nil
		}
		lastErr = err
		if isPermanent(status) {
			return nil, errors.Join(ErrPermanent, err)
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRequestFailed, c.maxRetries+1, lastErr)
}

func (c *ContentClient) post(ctx context.Context, payload []byte) (*batchResponse, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint+"/products/batch", bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, resp.StatusCode, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.ReplaceAll(string(body), "\n", " ")
		if len(msg) > 200 {
			msg = msg[:200] + "..."
		}
		return nil, resp.StatusCode, fmt.Errorf("feed API returned status %d: %s", resp.StatusCode, msg)
	}

	var out batchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode batch response: %w", err)
	}
	return &out, resp.StatusCode, nil
}

func (c *ContentClient) release() {
	if c.breaker != nil {
		c.breaker.Release()
	}
}

func (c *ContentClient) record(err error) {
	if c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	c.breaker.RecordFailure()
}

// mapResults pairs response entries with the submitted items by batchId.
// Items without an entry are reported as failed.
func mapResults(items []FeedItem, resp *batchResponse) []ItemResult {
	byBatch := make(map[int]batchResponseEntry, len(resp.Entries))
	for _, e := range resp.Entries {
		byBatch[e.BatchID] = e
	}

	results := make([]ItemResult, len(items))
	for i, item := range items {
		e, ok := byBatch[i]
		switch {
		case !ok:
			results[i] = ItemResult{ID: item.OfferID, Reason: "missing from batch response"}
		case e.Errors != nil:
			results[i] = ItemResult{ID: item.OfferID, Reason: e.Errors.reason()}
		default:
			results[i] = ItemResult{ID: item.OfferID, OK: true}
		}
	}
	return results
}

// isPermanent reports whether an HTTP status will not change on retry.
func isPermanent(status int) bool {
	if status < 400 || status >= 500 {
		return false
	}
	switch status {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	default:
		return true
	}
}
