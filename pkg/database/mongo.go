package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"account-portal/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const usersCollection = "users"

// Mongo is an injected, lazily-connected handle on the document store.
// The first caller dials; concurrent first callers block on the same
// attempt and reuse its result. A failed attempt leaves the handle empty
// so the next caller retries.
type Mongo struct {
	cfg utils.DatabaseConfig
	log *zap.Logger

	mu      sync.Mutex
	client  *mongo.Client
	db      *mongo.Database
	connect func(ctx context.Context) (*mongo.Database, error)
}

func NewMongo(cfg utils.DatabaseConfig, log *zap.Logger) *Mongo {
	m := &Mongo{
		cfg: cfg,
		log: log,
	}
	m.connect = m.dial
	return m
}

// Database returns the shared database handle, connecting on first use.
func (m *Mongo) Database(ctx context.Context) (*mongo.Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return m.db, nil
	}

	db, err := m.connect(ctx)
	if err != nil {
		// State stays empty; the next caller gets a fresh attempt.
		return nil, err
	}

	m.db = db
	return m.db, nil
}

// Users returns the users collection, connecting on first use.
func (m *Mongo) Users(ctx context.Context) (*mongo.Collection, error) {
	db, err := m.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(usersCollection), nil
}

// Ping forces a connection attempt and verifies the server is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	if _, err := m.Database(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	client := m.client
	m.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}

	err := m.client.Disconnect(ctx)
	m.client = nil
	m.db = nil
	return err
}

// dial opens the client, verifies connectivity and ensures the unique
// email index the store-level uniqueness invariant depends on.
func (m *Mongo) dial(ctx context.Context) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(m.cfg.URI).
		SetConnectTimeout(5 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo failed: %w", err)
	}

	db := client.Database(m.cfg.Name)

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, indexModel); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure email index: %w", err)
	}

	m.client = client
	m.log.Info("Document store connected",
		zap.String("database", m.cfg.Name),
	)

	return db, nil
}
