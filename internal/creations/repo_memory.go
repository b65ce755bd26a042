package creations

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo used for local development and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Creation
}

// NewMemoryRepo creates an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: map[string]Creation{}}
}

// Create stores the creation keyed by ID.
func (r *MemoryRepo) Create(_ context.Context, c Creation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c
	return nil
}

// ListByUser returns the user's creations newest-first.
func (r *MemoryRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]Creation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Creation
	for _, c := range r.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return page(out, limit, offset), nil
}

// ListPublished returns published creations across users, newest-first.
func (r *MemoryRepo) ListPublished(_ context.Context, limit, offset int) ([]Creation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Creation
	for _, c := range r.items {
		if c.Publish {
			out = append(out, c)
		}
	}
	return page(out, limit, offset), nil
}

// SetPublish flips the publish flag on a creation owned by the user.
func (r *MemoryRepo) SetPublish(_ context.Context, userID, id string, publish bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	c.Publish = publish
	r.items[id] = c
	return nil
}

func page(items []Creation, limit, offset int) []Creation {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

var _ Repo = (*MemoryRepo)(nil)
