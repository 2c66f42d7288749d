package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config holds MongoDB connection details.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// ConnectFunc creates a client. mongo.Connect is used unless overridden.
type ConnectFunc func(ctx context.Context, opts ...*options.ClientOptions) (*mongo.Client, error)

// ConnectionManager lazily creates one shared client and hands out the
// configured collection. It is safe for concurrent use.
type ConnectionManager struct {
	cfg     Config
	connect ConnectFunc

	mu     sync.Mutex
	client *mongo.Client
}

// NewConnectionManager creates a manager. No connection is made until first use.
func NewConnectionManager(cfg Config) *ConnectionManager {
	return &ConnectionManager{
		cfg:     cfg,
		connect: mongo.Connect,
	}
}

// WithConnectFunc replaces the function used to create the client.
func (m *ConnectionManager) WithConnectFunc(fn ConnectFunc) *ConnectionManager {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connect = fn
	return m
}

// Client returns the shared client, connecting on first call.
func (m *ConnectionManager) Client(ctx context.Context) (*mongo.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return m.client, nil
	}

	client, err := m.connect(ctx, options.Client().ApplyURI(m.cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	slog.Debug("mongodb client created", "database", m.cfg.Database)
	m.client = client
	return client, nil
}

// Collection returns the configured collection.
func (m *ConnectionManager) Collection(ctx context.Context) (*mongo.Collection, error) {
	client, err := m.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(m.cfg.Database).Collection(m.cfg.Collection), nil
}

// Ping checks that the primary is reachable.
func (m *ConnectionManager) Ping(ctx context.Context) error {
	client, err := m.Client(ctx)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return nil
}

// Close disconnects the client if one was created. Calling it again is a no-op.
func (m *ConnectionManager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	client := m.client
	m.client = nil
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}
