package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tubescribe/pkg/domain"
)

// MongoStore keeps run records as documents in a single collection, one
// document per video.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore creates a store for the given database and collection.
func NewMongoStore(ctx context.Context, uri, databaseName, collectionName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(databaseName).Collection(collectionName),
	}, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// SaveRun upserts the run record keyed by video id.
func (s *MongoStore) SaveRun(ctx context.Context, run *domain.RunRecord) error {
	if s.collection == nil {
		return fmt.Errorf("collection not initialized")
	}

	filter := bson.M{"video_id": run.VideoID}
	update := bson.M{"$set": run}
	opts := options.Update().SetUpsert(true)

	if _, err := s.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("upsert run %s: %w", run.VideoID, err)
	}
	return nil
}
