package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/vasiliy-maslov/mongo-user-service/internal/config"
)

// ErrNoConnection is returned by lookups when Connect did not succeed.
var ErrNoConnection = errors.New("no database connection available")

type handle struct {
	client   *mongo.Client
	database *mongo.Database
}

// Manager owns the MongoDB client shared by all requests. Connect runs at
// most once; after that every lookup reads the same immutable handle.
type Manager struct {
	cfg config.MongoConfig

	once       sync.Once
	connectErr error
	current    atomic.Pointer[handle]
}

func NewManager(cfg config.MongoConfig) *Manager {
	return &Manager{cfg: cfg}
}

// Connect builds the client. Failures are logged and leave the manager
// empty; there is no retry, later calls return the first result.
func (m *Manager) Connect(ctx context.Context) error {
	m.once.Do(func() {
		m.connectErr = m.connect(ctx)
		if m.connectErr != nil {
			log.Error().Err(m.connectErr).Msg("Failed to connect to MongoDB, requests will fail until restart")
		}
	})
	return m.connectErr
}

func (m *Manager) connect(ctx context.Context) error {
	if m.cfg.URI == "" {
		return errors.New("mongo uri is not configured")
	}

	opts := options.Client().
		ApplyURI(m.cfg.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	if m.cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(m.cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return fmt.Errorf("failed to create mongo client: %w", err)
	}

	// The driver reconnects on its own, so an unreachable server only warns.
	pingCtx := ctx
	if m.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, m.cfg.ConnectTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		log.Warn().Err(err).Msg("MongoDB did not answer ping during startup")
	}

	m.current.Store(&handle{
		client:   client,
		database: client.Database(m.cfg.Database),
	})
	log.Info().Str("database", m.cfg.Database).Msg("Connected to MongoDB")

	return nil
}

// Database returns the shared database handle.
func (m *Manager) Database() (*mongo.Database, error) {
	h := m.current.Load()
	if h == nil {
		return nil, ErrNoConnection
	}
	return h.database, nil
}

func (m *Manager) Collection(name string) (*mongo.Collection, error) {
	database, err := m.Database()
	if err != nil {
		return nil, err
	}
	return database.Collection(name), nil
}

// Ping checks that the primary answers.
func (m *Manager) Ping(ctx context.Context) error {
	h := m.current.Load()
	if h == nil {
		return ErrNoConnection
	}
	if err := h.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping mongo: %w", err)
	}
	return nil
}

// Close disconnects the client, if any.
func (m *Manager) Close(ctx context.Context) error {
	h := m.current.Swap(nil)
	if h == nil {
		return nil
	}
	if err := h.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongo: %w", err)
	}
	log.Info().Msg("Database connection closed")
	return nil
}
