package project

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a project id has no row.
var ErrNotFound = errors.New("project not found")

// Store is the project persistence boundary. Save is a whole-document upsert;
// no partial-field merge is required of implementations.
type Store interface {
	Save(ctx context.Context, p Project) error
	Get(ctx context.Context, id string) (Project, error)
	ListForUser(ctx context.Context, userID string) ([]Project, error)
	Delete(ctx context.Context, id string) error
}
