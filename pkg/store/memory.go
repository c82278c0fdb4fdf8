package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory tree store for development and tests.
// All data is lost when the process exits.
type MemoryStore struct {
	mu    sync.RWMutex
	trees map[string]*Tree
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trees: make(map[string]*Tree)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tree, ok := s.trees[id]
	if !ok {
		return nil, nil
	}
	cp := *tree
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Tree, 0, len(s.trees))
	for _, tree := range s.trees {
		cp := *tree
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, tree *Tree) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *tree
	s.trees[tree.ID] = &cp
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trees[id]; !ok {
		return ErrNotFound
	}
	delete(s.trees, id)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
