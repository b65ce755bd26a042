package credits

import "context"

// Store persists per-user credit ledgers. Implementations must make
// CompareAndSet atomic so concurrent decrements never lose an update.
type Store interface {
	// Get returns the stored ledger and whether one exists for the user.
	Get(ctx context.Context, userID string) (Ledger, bool, error)
	// Init stores the given ledger only if none exists yet and returns
	// whatever ledger is stored afterwards.
	Init(ctx context.Context, userID string, ledger Ledger) (Ledger, error)
	// CompareAndSet replaces the stored ledger only if it still equals
	// expected, reporting whether the swap happened.
	CompareAndSet(ctx context.Context, userID string, expected, updated Ledger) (bool, error)
}
