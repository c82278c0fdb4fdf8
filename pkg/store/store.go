// Package store provides persistence for named family trees.
//
// The server exposes CRUD over stored trees; this package defines the
// record format and the storage backends behind it:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for production deployments
//
// # Usage
//
// Create a store:
//
//	// Development
//	store := NewMemoryStore()
//
//	// Production
//	store, err := NewMongoStore(ctx, MongoConfig{
//	    URI: "mongodb://localhost:27017",
//	})
//
// Manage trees:
//
//	tree := store.NewTree("smith-family", serializedGraph)
//	if err := s.Put(ctx, tree); err != nil {
//	    return err
//	}
//
//	tree, err := s.Get(ctx, treeID)
//	if tree == nil {
//	    // Not found
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kindredlab/kindred/pkg/graph"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned by Delete when the tree does not exist.
	ErrNotFound = errors.New("tree not found")
)

// Tree is one stored family tree: the serialized graph plus ownership
// metadata. The layout is never stored; it is recomputed (and cached)
// from the graph on demand.
type Tree struct {
	ID        string      `json:"id" bson:"_id"`
	Name      string      `json:"name" bson:"name"`
	Graph     graph.Graph `json:"graph" bson:"graph"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for tree storage backends.
type Store interface {
	// Get retrieves a tree by ID.
	// Returns nil, nil if the tree doesn't exist.
	Get(ctx context.Context, id string) (*Tree, error)

	// List returns all trees ordered by creation time.
	List(ctx context.Context) ([]*Tree, error)

	// Put stores a tree, replacing any existing record with the same ID.
	Put(ctx context.Context, tree *Tree) error

	// Delete removes a tree. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewTree creates a tree record with a fresh UUID and timestamps.
func NewTree(name string, g graph.Graph) *Tree {
	now := time.Now().UTC()
	return &Tree{
		ID:        uuid.NewString(),
		Name:      name,
		Graph:     g,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
