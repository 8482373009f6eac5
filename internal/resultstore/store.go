// Package resultstore persists completed backtest runs to MongoDB — the
// only durable state the system has, per the spec's "no durable on-disk
// state during a running backtest" invariant. Nothing is written until a
// run finishes or fails.
package resultstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Store wraps the MongoDB client and database holding run history.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    zerolog.Logger
}

// Connect dials MongoDB at uri (which should include the database name,
// e.g. mongodb://localhost:27017/latticebt) and verifies connectivity.
func Connect(ctx context.Context, uri string, log zerolog.Logger) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("resultstore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("resultstore: ping: %w", err)
	}

	dbName := "latticebt"
	if u, err := url.Parse(uri); err == nil {
		if name := strings.TrimPrefix(u.Path, "/"); name != "" {
			dbName = name
		}
	}

	log.Info().Str("db", dbName).Msg("connected to result store")
	return &Store{client: client, db: client.Database(dbName), log: log}, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) {
	s.client.Disconnect(ctx)
}

// Migrate ensures indexes exist on all collections.
func (s *Store) Migrate(ctx context.Context) error {
	return EnsureIndexes(ctx, s.db)
}

// DB returns the underlying database, for callers that need raw access.
func (s *Store) DB() *mongo.Database {
	return s.db
}
