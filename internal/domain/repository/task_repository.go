package repository

import (
	"context"
	"time"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// TaskRepository defines persistence for tasks. Lists are newest first.
type TaskRepository interface {
	List(ctx context.Context) ([]*entity.Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Create assigns an id and timestamps. UserID must already be set.
	Create(ctx context.Context, task *entity.Task) error

	// Update writes title, description, status, priority and category.
	// Owner and creation time are never touched. An unknown id surfaces as NotFound.
	Update(ctx context.Context, task *entity.Task) error

	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*entity.Task, error)
	ListByOwnerAndStatus(ctx context.Context, userID uuid.UUID, status entity.TaskStatus) ([]*entity.Task, error)
	ListByOwnerAndPriority(ctx context.Context, userID uuid.UUID, priority entity.TaskPriority) ([]*entity.Task, error)

	// ListByOwnerAndCategory with a nil categoryID returns the owner's uncategorized tasks.
	ListByOwnerAndCategory(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID) ([]*entity.Task, error)

	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Task, error)
	ListByStatus(ctx context.Context, status entity.TaskStatus) ([]*entity.Task, error)
	ListByPriority(ctx context.Context, priority entity.TaskPriority) ([]*entity.Task, error)

	// ListOverdue returns unfinished tasks created more than entity.OverdueAfter before now.
	ListOverdue(ctx context.Context, now time.Time) ([]*entity.Task, error)

	// Search matches term case-insensitively against title and description.
	Search(ctx context.Context, userID uuid.UUID, term string) ([]*entity.Task, error)

	// Filter applies every set field of filter to the owner's tasks and pages the result.
	Filter(ctx context.Context, userID uuid.UUID, filter entity.TaskFilter) ([]*entity.Task, error)

	CountByOwner(ctx context.Context, userID uuid.UUID) (int64, error)
	CountCompletedByOwner(ctx context.Context, userID uuid.UUID) (int64, error)
}
