package repository

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// CategoryRepository defines persistence for categories. Lists are ordered by name.
type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindByName matches case-insensitively.
	FindByName(ctx context.Context, name string) (*entity.Category, error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Create assigns an id and creation time. A taken name surfaces as a Conflict.
	Create(ctx context.Context, category *entity.Category) error

	// Update writes name and description. An unknown id surfaces as NotFound.
	Update(ctx context.Context, category *entity.Category) error

	// Delete clears the category on every referencing task, then removes the row.
	// Tasks are never deleted. Reports whether the category existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	CountTasks(ctx context.Context, categoryID uuid.UUID) (int64, error)
}
