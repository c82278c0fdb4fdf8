package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "kindred"
	DefaultMongoCollection = "trees"
	mongoConnectTimeout    = 10 * time.Second
)

// MongoConfig configures the MongoDB tree store.
type MongoConfig struct {
	// URI is the connection string, e.g. mongodb://localhost:27017.
	URI string
	// Database defaults to DefaultMongoDatabase when empty.
	Database string
	// Collection defaults to DefaultMongoCollection when empty.
	Collection string
}

// MongoStore is a MongoDB-backed tree store for production deployments
// where trees must survive restarts and be shared across instances.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a
// ping before returning.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Tree, error) {
	var tree Tree
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&tree)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tree %s: %w", id, err)
	}
	return &tree, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Tree, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	defer cursor.Close(ctx)

	var trees []*Tree
	if err := cursor.All(ctx, &trees); err != nil {
		return nil, fmt.Errorf("decode trees: %w", err)
	}
	return trees, nil
}

func (s *MongoStore) Put(ctx context.Context, tree *Tree) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": tree.ID}, tree, opts); err != nil {
		return fmt.Errorf("put tree %s: %w", tree.ID, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete tree %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
