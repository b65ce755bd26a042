package credits

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]Ledger
}

// NewMemoryStore returns an in-process Store for dev and tests.
func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string]Ledger)}
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Ledger, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.data[userID]
	if !ok {
		return nil, false, nil
	}
	return l.Clone(), true, nil
}

func (s *memoryStore) Init(ctx context.Context, userID string, ledger Ledger) (Ledger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.data[userID]; ok {
		return existing.Clone(), nil
	}
	s.data[userID] = ledger.Clone()
	return ledger.Clone(), nil
}

func (s *memoryStore) CompareAndSet(ctx context.Context, userID string, expected, updated Ledger) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.data[userID]
	if !ok || !current.Equal(expected) {
		return false, nil
	}
	s.data[userID] = updated.Clone()
	return true, nil
}
