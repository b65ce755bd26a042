package creations

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a creation does not exist for the user.
var ErrNotFound = errors.New("creation not found")

// Repo persists creation records.
type Repo interface {
	Create(ctx context.Context, c Creation) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Creation, error)
	ListPublished(ctx context.Context, limit, offset int) ([]Creation, error)
	SetPublish(ctx context.Context, userID, id string, publish bool) error
}
