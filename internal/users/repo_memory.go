package users

import (
	"context"
	"sync"
	"time"
)

type memoryRepo struct {
	mu   sync.RWMutex
	data map[string]User
}

// NewMemoryRepo returns an in-process Repo for dev and tests.
func NewMemoryRepo() Repo {
	return &memoryRepo{data: make(map[string]User)}
}

func (r *memoryRepo) Upsert(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.data[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
		if user.Plan == "" {
			user.Plan = existing.Plan
		}
	} else {
		user.CreatedAt = now
		if user.Plan == "" {
			user.Plan = PlanFree
		}
	}
	user.UpdatedAt = now
	r.data[user.ID] = user
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.data[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}
