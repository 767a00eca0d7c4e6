// Package cache persists the client's local copy of the task list.
package cache

import (
	"context"

	dom "Tasker/internal/domain"
)

// Mirror stores the whole task list as one JSON array.
// Load returns nil, nil when nothing has been stored yet.
type Mirror interface {
	Load(ctx context.Context) ([]dom.Task, error)
	Save(ctx context.Context, list []dom.Task) error
}
