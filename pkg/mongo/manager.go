package mongo

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lucasbeta101/bether-backend-productos-sub000/pkg/logger"
)

// Manager owns the service's single pooled connection to the document store.
// It is constructed once at startup and injected into whatever needs the
// store; it never retries on its own.
type Manager struct {
	cfg Config
	log *slog.Logger

	mu     sync.RWMutex
	state  State
	handle *Handle
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// NewManager returns a Manager in the Uninitialized state. No I/O happens
// until Connect is called.
func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:   cfg,
		log:   logger.Discard(),
		state: StateUninitialized,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect establishes a new session and verifies it with a ping. Server
// selection and the initial connection are each bounded by
// Config.ConnectTimeout, and so is the whole call.
//
// On failure the manager moves to Failed and returns a *ConnectionError; a
// later Connect starts over with a new Handle.
func (m *Manager) Connect(ctx context.Context) (*Handle, error) {
	if m.cfg.ConnectionURL == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("connection URL is required"))
	}

	m.mu.Lock()
	switch m.state {
	case StateReady:
		m.mu.Unlock()
		return nil, ErrAlreadyConnected
	case StateConnecting:
		m.mu.Unlock()
		return nil, ErrAlreadyConnected
	case StateClosed:
		m.mu.Unlock()
		return nil, ErrClosed
	}
	m.state = StateConnecting
	m.mu.Unlock()

	timeout := m.cfg.connectTimeout()
	start := time.Now()

	h, err := m.dial(ctx, timeout)
	elapsed := time.Since(start)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateClosed {
		// Close raced with the connect attempt.
		if h != nil {
			_ = h.client.Disconnect(context.Background())
		}
		return nil, ErrClosed
	}

	if err != nil {
		m.state = StateFailed
		m.handle = nil
		m.log.Error("mongo connect failed",
			logger.Component("mongo"),
			logger.Duration(elapsed),
			logger.Error(err),
		)
		return nil, err
	}

	h.markReady()
	m.state = StateReady
	m.handle = h
	m.log.Info("mongo connected",
		logger.Component("mongo"),
		slog.String("database", m.cfg.Database),
		logger.Duration(elapsed),
	)
	return h, nil
}

func (m *Manager) dial(ctx context.Context, timeout time.Duration) (*Handle, error) {
	opts := options.Client().
		ApplyURI(m.cfg.ConnectionURL).
		SetAppName(m.cfg.AppName).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout).
		SetMaxPoolSize(m.cfg.MaxPoolSize).
		SetMinPoolSize(m.cfg.MinPoolSize).
		SetMaxConnIdleTime(m.cfg.MaxConnIdleTime).
		SetRetryWrites(m.cfg.RetryWrites).
		SetRetryReads(m.cfg.RetryReads)

	start := time.Now()
	client, err := mongo.Connect(opts)
	if err != nil {
		// Connect only fails on option validation, e.g. a malformed URI.
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	h := newHandle(client, m.cfg.Database, timeout)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		h.markFailed()
		_ = client.Disconnect(context.Background())
		return nil, classify(err, time.Since(start), timeout)
	}
	return h, nil
}

// Ping checks liveness of the active handle.
func (m *Manager) Ping(ctx context.Context) error {
	h, err := m.ready()
	if err != nil {
		return err
	}
	return h.Ping(ctx)
}

// Close releases the active handle and moves the manager to Closed.
// It is idempotent.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	h := m.handle
	m.handle = nil
	already := m.state == StateClosed
	m.state = StateClosed
	m.mu.Unlock()

	if already || h == nil {
		return nil
	}
	if err := h.Close(ctx); err != nil {
		m.log.Warn("mongo disconnect failed", logger.Component("mongo"), logger.Error(err))
		return err
	}
	m.log.Info("mongo disconnected", logger.Component("mongo"))
	return nil
}

// State reports the manager's lifecycle position.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Handle returns the active handle, or nil when not Ready.
func (m *Manager) Handle() *Handle {
	h, _ := m.ready()
	return h
}

// Database returns the configured database of the active handle.
func (m *Manager) Database() (*mongo.Database, error) {
	h, err := m.ready()
	if err != nil {
		return nil, err
	}
	return h.Database(), nil
}

// Collection returns a collection of the configured database.
func (m *Manager) Collection(name string) (*mongo.Collection, error) {
	db, err := m.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (m *Manager) ready() (*Handle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != StateReady || m.handle == nil || !m.handle.Ready() {
		return nil, ErrNotConnected
	}
	return m.handle, nil
}

// classify turns a driver error into a *ConnectionError. Credential errors
// are checked first since a handshake rejection can also take a while.
func classify(err error, elapsed, timeout time.Duration) error {
	var ce *ConnectionError
	if errors.As(err, &ce) {
		return ce
	}
	kind := KindNetwork
	switch {
	case isAuthError(err):
		kind = KindAuth
	case mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded), elapsed >= timeout:
		kind = KindTimeout
	}
	return &ConnectionError{Kind: kind, Cause: err}
}

// Server codes: 18 AuthenticationFailed, 13 Unauthorized.
func isAuthError(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorCode(18) || se.HasErrorCode(13)) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "authentication failed") ||
		strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "auth error")
}
