package credits

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGStore implements Store on Postgres. Ledgers are stored as a jsonb blob
// keyed by user; jsonb equality gives CompareAndSet its atomicity.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed credit store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) Get(ctx context.Context, userID string) (Ledger, bool, error) {
	var raw []byte
	err := s.DB.QueryRowContext(ctx, `
SELECT ledger FROM credit_ledgers WHERE user_id = $1`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get ledger user=%s: %w", userID, err)
	}
	ledger, err := decodeLedger(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get ledger user=%s: %w", userID, err)
	}
	return ledger, true, nil
}

func (s *PGStore) Init(ctx context.Context, userID string, ledger Ledger) (Ledger, error) {
	raw, err := json.Marshal(ledger)
	if err != nil {
		return nil, err
	}
	if _, err := s.DB.ExecContext(ctx, `
INSERT INTO credit_ledgers (user_id, ledger) VALUES ($1, $2)
ON CONFLICT (user_id) DO NOTHING`, userID, raw); err != nil {
		return nil, fmt.Errorf("init ledger user=%s: %w", userID, err)
	}

	stored, ok, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("init ledger user=%s: row missing after insert", userID)
	}
	return stored, nil
}

func (s *PGStore) CompareAndSet(ctx context.Context, userID string, expected, updated Ledger) (bool, error) {
	expectedRaw, err := json.Marshal(expected)
	if err != nil {
		return false, err
	}
	updatedRaw, err := json.Marshal(updated)
	if err != nil {
		return false, err
	}

	res, err := s.DB.ExecContext(ctx, `
UPDATE credit_ledgers SET ledger = $3, updated_at = now()
WHERE user_id = $1 AND ledger = $2::jsonb`, userID, expectedRaw, updatedRaw)
	if err != nil {
		return false, fmt.Errorf("cas ledger user=%s: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func decodeLedger(raw []byte) (Ledger, error) {
	var ledger Ledger
	if err := json.Unmarshal(raw, &ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}
