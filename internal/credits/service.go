package credits

import (
	"context"
	"fmt"
)

// Retry budget for the decrement loop. Conflicts only happen when the same
// user races itself, so a handful of attempts is plenty.
const maxCASAttempts = 5

// Service manages credit ledgers via an underlying store.
type Service struct {
	store Store
}

// NewService constructs a Service with an in-memory store.
func NewService() *Service {
	return &Service{store: NewMemoryStore()}
}

// NewServiceWithStore constructs a Service over the given store.
func NewServiceWithStore(store Store) *Service {
	return &Service{store: store}
}

// Ensure returns the user's ledger, initializing tier defaults on first use.
// Initialization is idempotent: a concurrent first request observes the
// ledger stored by whichever request won.
func (s *Service) Ensure(ctx context.Context, userID string, tier Tier) (Ledger, error) {
	ledger, ok, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ok {
		return ledger, nil
	}
	return s.store.Init(ctx, userID, defaultLedger(tier))
}

// Consume decrements one credit for the capability and returns the remaining
// count. The compare-and-set loop guarantees two concurrent successes starting
// from N land at N-2 rather than losing an update.
func (s *Service) Consume(ctx context.Context, userID string, cap Capability) (int, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		current, ok, err := s.store.Get(ctx, userID)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("no ledger for user %s", userID)
		}
		if current.Remaining(cap) <= 0 {
			return 0, ErrInsufficient
		}

		updated := current.Clone()
		updated[cap]--

		swapped, err := s.store.CompareAndSet(ctx, userID, current, updated)
		if err != nil {
			return 0, err
		}
		if swapped {
			return updated.Remaining(cap), nil
		}
	}
	return 0, ErrConflict
}
