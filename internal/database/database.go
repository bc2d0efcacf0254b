package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Falco0906/internship-portal/internal/config"
	"github.com/Falco0906/internship-portal/internal/logger"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// ErrNotConnected is returned by Database before a client exists.
var ErrNotConnected = errors.New("database client not initialised")

// ManagerOption customises a Manager.
type ManagerOption func(*Manager)

// WithStateObserver registers fn to be called on every state change. fn runs
// while the manager's lock is held and must not call back into the Manager.
func WithStateObserver(fn func(State)) ManagerOption {
	return func(m *Manager) {
		m.observers = append(m.observers, fn)
	}
}

// Manager owns the single MongoDB client of the process and tracks its
// connection state. The state is written only by Connect, Disconnect and the
// driver monitor callbacks registered in clientOptions; everything else reads
// it through State.
type Manager struct {
	cfg       config.DatabaseConfig
	uri       string
	log       *logger.Logger
	observers []func(State)

	state  atomic.Int32
	client atomic.Pointer[mongo.Client]

	mu            sync.Mutex
	hosts         []string
	reachable     map[string]struct{}
	connectedOnce bool
	closed        bool

	ready     chan struct{}
	readyOnce sync.Once
}

// NewManager prepares a manager for cfg. The connection string is normalised
// once here; no network I/O happens until Connect.
func NewManager(cfg config.DatabaseConfig, log *logger.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:       cfg,
		uri:       NormalizeURI(cfg.URI, cfg.Name),
		log:       log,
		reachable: make(map[string]struct{}),
		ready:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current connection state without blocking.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// Ready is closed once the initial connection attempt has finished, whether
// it succeeded or not.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// URI returns the normalised connection string. Callers must redact it
// before logging.
func (m *Manager) URI() string {
	return m.uri
}

// DatabaseName is the database named in the URI, or the configured default.
func (m *Manager) DatabaseName() string {
	if name := databaseFromURI(m.uri); name != "" {
		return name
	}
	return m.cfg.Name
}

// Hosts returns the seed list the client was built from.
func (m *Manager) Hosts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.hosts...)
}

// Client returns the underlying driver client, or nil before Connect has
// built one.
func (m *Manager) Client() *mongo.Client {
	return m.client.Load()
}

// Database returns the application database handle. The handle is usable
// even while disconnected; operations on it fail until the driver reconnects.
func (m *Manager) Database() (*mongo.Database, error) {
	client := m.client.Load()
	if client == nil {
		return nil, ErrNotConnected
	}
	return client.Database(m.DatabaseName()), nil
}

// Connect starts the connection attempt in the background and returns
// immediately. The attempt is bounded by the server selection timeout. On
// failure the client is kept so the driver's monitors can still bring the
// connection up later; no retry loop runs here. Only a connection string
// with an unknown scheme is reported synchronously: full option parsing
// includes the SRV and TXT lookups of mongodb+srv URIs and runs in the
// background with the rest of the attempt.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	m.setState(Connecting)
	m.mu.Unlock()

	if !hasMongoScheme(m.uri) {
		err := errors.New(`scheme must be "mongodb" or "mongodb+srv"`)
		m.connectFailed(err)
		m.readyOnce.Do(func() { close(m.ready) })
		return fmt.Errorf("invalid mongodb uri: %w", err)
	}

	go m.connect(ctx)
	return nil
}

func hasMongoScheme(uri string) bool {
	return strings.HasPrefix(uri, "mongodb://") || strings.HasPrefix(uri, "mongodb+srv://")
}

func (m *Manager) connect(ctx context.Context) {
	defer m.readyOnce.Do(func() { close(m.ready) })

	ctx, cancel := context.WithTimeout(ctx, m.cfg.ServerSelectionTimeout)
	defer cancel()

	opts := m.clientOptions()
	if err := opts.Validate(); err != nil {
		m.connectFailed(err)
		return
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		m.connectFailed(err)
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		_ = client.Disconnect(context.Background())
		return
	}
	m.hosts = opts.Hosts
	m.client.Store(client)
	m.mu.Unlock()

	if err := client.Ping(ctx, nil); err != nil {
		m.connectFailed(err)
		return
	}
	m.connectSucceeded()
}

func (m *Manager) clientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(m.uri).
		SetServerSelectionTimeout(m.cfg.ServerSelectionTimeout).
		SetSocketTimeout(m.cfg.SocketTimeout).
		SetMaxPoolSize(m.cfg.MaxPoolSize).
		SetMinPoolSize(m.cfg.MinPoolSize).
		SetRetryWrites(m.cfg.RetryWrites).
		SetWriteConcern(writeConcern(m.cfg.WriteConcern)).
		SetPoolMonitor(&event.PoolMonitor{Event: m.handlePoolEvent}).
		SetServerMonitor(&event.ServerMonitor{ServerHeartbeatFailed: m.handleHeartbeatFailed})
}

func writeConcern(level string) *writeconcern.WriteConcern {
	if level == "majority" {
		return writeconcern.Majority()
	}
	if n, err := strconv.Atoi(level); err == nil {
		return &writeconcern.WriteConcern{W: n}
	}
	return &writeconcern.WriteConcern{W: level}
}

func (m *Manager) connectSucceeded() {
	m.mu.Lock()
	m.connectedOnce = true
	if m.State() == Connecting {
		m.setState(Connected)
	}
	hosts := strings.Join(m.hosts, ",")
	m.mu.Unlock()

	m.log.DatabaseEvent("connected",
		slog.String("database", m.DatabaseName()),
		slog.String("host", hosts),
	)
}

func (m *Manager) connectFailed(err error) {
	m.mu.Lock()
	if m.State() == Connecting {
		m.setState(Disconnected)
	}
	m.mu.Unlock()

	attrs := []any{
		slog.String("category", errorCategory(err)),
		slog.String("type", fmt.Sprintf("%T", err)),
		slog.String("uri", RedactURI(m.uri)),
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		attrs = append(attrs, slog.Int("code", int(cmdErr.Code)), slog.String("code_name", cmdErr.Name))
	}
	m.log.DatabaseError("connect", err, attrs...)
}

func errorCategory(err error) string {
	var cmdErr mongo.CommandError
	switch {
	case mongo.IsTimeout(err):
		return "timeout"
	case mongo.IsNetworkError(err):
		return "network"
	case errors.As(err, &cmdErr):
		return "command"
	default:
		return "client"
	}
}

// handlePoolEvent tracks which servers have a usable pool. A pool becomes
// ready once the driver's monitor has reached the server and is cleared when
// the server is marked unknown after a network error.
func (m *Manager) handlePoolEvent(evt *event.PoolEvent) {
	if evt == nil {
		return
	}
	switch evt.Type {
	case event.PoolReady:
		m.serverUp(evt.Address)
	case event.PoolCleared, event.PoolClosedEvent:
		m.serverDown(evt.Address)
	}
}

func (m *Manager) serverUp(addr string) {
	m.mu.Lock()
	m.reachable[addr] = struct{}{}
	changed := false
	reconnected := m.connectedOnce
	if !m.closed && m.State() == Disconnected {
		m.setState(Connected)
		m.connectedOnce = true
		changed = true
	}
	m.mu.Unlock()

	if !changed {
		return
	}
	if reconnected {
		m.log.DatabaseEvent("reconnected", slog.String("address", addr))
	} else {
		m.log.DatabaseEvent("connected", slog.String("address", addr), slog.String("database", m.DatabaseName()))
	}
}

func (m *Manager) serverDown(addr string) {
	m.mu.Lock()
	delete(m.reachable, addr)
	lost := len(m.reachable) == 0 && m.State() == Connected
	if lost {
		m.setState(Disconnected)
	}
	m.mu.Unlock()

	if lost {
		m.log.Warn("database_event", slog.String("event", "disconnected"), slog.String("address", addr))
	}
}

func (m *Manager) handleHeartbeatFailed(evt *event.ServerHeartbeatFailedEvent) {
	if evt == nil || evt.Failure == nil {
		return
	}
	if m.State() == Connected {
		m.log.DatabaseError("heartbeat", evt.Failure, slog.String("connection_id", evt.ConnectionID))
		return
	}
	m.log.Warn("database heartbeat failed",
		slog.String("connection_id", evt.ConnectionID),
		slog.String("state", m.State().String()),
		slog.String("error", evt.Failure.Error()),
	)
}

// Disconnect closes the client. The state passes through Disconnecting and
// ends at Disconnected; monitor events arriving afterwards are ignored.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.setState(Disconnecting)
	m.mu.Unlock()

	var err error
	if client := m.client.Load(); client != nil {
		err = client.Disconnect(ctx)
	}

	m.mu.Lock()
	m.reachable = make(map[string]struct{})
	m.setState(Disconnected)
	m.mu.Unlock()

	if err != nil {
		m.log.DatabaseError("disconnect", err)
		return err
	}
	m.log.DatabaseEvent("closed")
	return nil
}

// setState must be called with m.mu held.
func (m *Manager) setState(s State) {
	m.state.Store(int32(s))
	for _, fn := range m.observers {
		fn(s)
	}
}
