package usecase

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// CategoryInput holds the writable fields of a category.
type CategoryInput struct {
	Name        string
	Description *string
}

// CategoryUsecase manages the shared category list.
type CategoryUsecase interface {
	List(ctx context.Context) ([]*entity.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	Create(ctx context.Context, input CategoryInput) (*entity.Category, error)
	Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*entity.Category, error)

	// Delete detaches the category from its tasks before removing it.
	Delete(ctx context.Context, id uuid.UUID) error
}
