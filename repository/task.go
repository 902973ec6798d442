package repository

import (
	"context"

	"github.com/taskdesk/backend/domain"
)

// TaskFilter narrows List results. An empty UserID means no owner
// restriction; callers are responsible for only passing that for super
// users. An empty Status means all statuses.
type TaskFilter struct {
	UserID string
	Status domain.TaskStatus
}

// TaskRepository is the storage contract the task use case depends on.
// Implementations never apply ownership rules beyond the provided filter;
// authorization is decided by the use case.
type TaskRepository interface {
	// GetByID returns the task or domain.ErrTaskNotFound.
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// List returns tasks matching the filter, newest first.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	// Create assigns an id when missing, persists and returns the record.
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Replace fully updates the task matched by its id and returns the
	// stored record, or domain.ErrTaskNotFound when no row matched.
	Replace(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Delete removes the task or returns domain.ErrTaskNotFound.
	Delete(ctx context.Context, id string) error
}
