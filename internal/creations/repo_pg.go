package creations

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new creation record.
func (r *PGRepo) Create(ctx context.Context, c Creation) error {
	const query = `
INSERT INTO creations (id, user_id, prompt, content, type, publish, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.UserID, c.Prompt, c.Content, c.Type, c.Publish, c.CreatedAt)
	return err
}

// ListByUser lists a user's creations ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Creation, error) {
	limit, offset = clampPage(limit, offset)
	const query = `
SELECT id, user_id, prompt, content, type, publish, created_at
FROM creations
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAll(rows)
}

// ListPublished lists published creations across all users, newest-first.
func (r *PGRepo) ListPublished(ctx context.Context, limit, offset int) ([]Creation, error) {
	limit, offset = clampPage(limit, offset)
	const query = `
SELECT id, user_id, prompt, content, type, publish, created_at
FROM creations
WHERE publish = TRUE
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAll(rows)
}

// SetPublish flips the publish flag on a creation owned by the user.
func (r *PGRepo) SetPublish(ctx context.Context, userID, id string, publish bool) error {
	const query = `
UPDATE creations
SET publish = $1
WHERE user_id = $2 AND id = $3`
	res, err := r.DB.ExecContext(ctx, query, publish, userID, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func scanAll(rows *sql.Rows) ([]Creation, error) {
	var out []Creation
	for rows.Next() {
		var c Creation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Prompt, &c.Content, &c.Type, &c.Publish, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
