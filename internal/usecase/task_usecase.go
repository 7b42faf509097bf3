package usecase

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateTaskInput holds the client-controlled fields of a new task.
// Priority defaults to Medium when nil; status always starts as Todo.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    *entity.TaskPriority
	CategoryID  *uuid.UUID
}

// UpdateTaskInput replaces every mutable field of a task.
type UpdateTaskInput struct {
	Title       string
	Description string
	Status      entity.TaskStatus
	Priority    entity.TaskPriority
	CategoryID  *uuid.UUID
}

// TaskUsecase defines the task operations of one authenticated owner.
// Operations on a task owned by someone else fail with Forbidden and change nothing.
type TaskUsecase interface {
	List(ctx context.Context, ownerID uuid.UUID, filter entity.TaskFilter) ([]*entity.Task, error)
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (*entity.Task, error)
	Create(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*entity.Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, input UpdateTaskInput) (*entity.Task, error)
	UpdateStatus(ctx context.Context, ownerID, taskID uuid.UUID, status entity.TaskStatus) (*entity.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
	Stats(ctx context.Context, ownerID uuid.UUID) (entity.TaskStats, error)
}
