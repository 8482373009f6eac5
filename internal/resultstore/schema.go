package resultstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes creates idempotent indexes on the run-history collections.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	type idx struct {
		collection string
		model      mongo.IndexModel
	}

	indexes := []idx{
		{
			collection: "runs",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "run_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: "runs",
			model: mongo.IndexModel{
				Keys: bson.D{{Key: "started_at", Value: -1}},
			},
		},
		{
			collection: "fills",
			model: mongo.IndexModel{
				Keys: bson.D{
					{Key: "run_id", Value: 1},
					{Key: "time", Value: 1},
				},
			},
		},
	}

	for _, i := range indexes {
		if _, err := db.Collection(i.collection).Indexes().CreateOne(ctx, i.model); err != nil {
			return fmt.Errorf("resultstore: create index on %s: %w", i.collection, err)
		}
	}
	return nil
}
