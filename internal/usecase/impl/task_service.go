package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// taskService implements the TaskUsecase interface.
type taskService struct {
	uowFactory repository.UnitOfWorkFactory
	logger     *slog.Logger
}

// TaskServiceParams holds dependencies for TaskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	UnitOfWorkFactory repository.UnitOfWorkFactory
	Logger            *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	return &taskService{
		uowFactory: params.UnitOfWorkFactory,
		logger:     params.Logger,
	}
}

func (srv *taskService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *taskService) List(ctx context.Context, ownerID uuid.UUID, filter entity.TaskFilter) ([]*entity.Task, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown status " + string(*filter.Status))
	}
	if filter.Priority != nil && !filter.Priority.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown priority " + string(*filter.Priority))
	}

	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	tasks, err := uow.Tasks().Filter(ctx, ownerID, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}

	return tasks, nil
}

func (srv *taskService) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*entity.Task, error) {
	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	return ownedTask(ctx, uow, ownerID, taskID)
}

// Create adds a task for ownerID. The task starts as Todo; priority defaults to Medium.
func (srv *taskService) Create(ctx context.Context, ownerID uuid.UUID, input usecase.CreateTaskInput) (*entity.Task, error) {
	priority := entity.TaskPriorityMedium
	if input.Priority != nil {
		priority = *input.Priority
	}
	if err := validateTask(input.Title, entity.TaskStatusTodo, priority); err != nil {
		return nil, err
	}

	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	if err := requireCategory(ctx, uow, input.CategoryID); err != nil {
		return nil, err
	}

	task := &entity.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      entity.TaskStatusTodo,
		Priority:    priority,
		UserID:      ownerID,
		CategoryID:  input.CategoryID,
	}
	if err := uow.Tasks().Create(ctx, task); err != nil {
		return nil, errors.Wrap(err, "failed to create task")
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to save task")
	}
	srv.log(ctx).Debug("Task created", slog.Any("taskID", task.ID), slog.Any("userID", ownerID))

	return srv.reload(ctx, uow, task.ID)
}

// Update replaces the mutable fields of a task owned by ownerID.
func (srv *taskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, input usecase.UpdateTaskInput) (*entity.Task, error) {
	if err := validateTask(input.Title, input.Status, input.Priority); err != nil {
		return nil, err
	}

	return srv.mutate(ctx, ownerID, taskID, func(uow repository.UnitOfWork, task *entity.Task) error {
		if err := requireCategory(ctx, uow, input.CategoryID); err != nil {
			return err
		}

		task.Title = strings.TrimSpace(input.Title)
		task.Description = strings.TrimSpace(input.Description)
		task.Status = input.Status
		task.Priority = input.Priority
		task.CategoryID = input.CategoryID

		return nil
	})
}

func (srv *taskService) UpdateStatus(ctx context.Context, ownerID, taskID uuid.UUID, status entity.TaskStatus) (*entity.Task, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown status " + string(status))
	}

	return srv.mutate(ctx, ownerID, taskID, func(_ repository.UnitOfWork, task *entity.Task) error {
		task.Status = status

		return nil
	})
}

// mutate loads the owned task, applies change and writes it back in one transaction.
func (srv *taskService) mutate(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	change func(uow repository.UnitOfWork, task *entity.Task) error,
) (*entity.Task, error) {
	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	err := repository.RunInTransaction(ctx, uow, func() error {
		task, err := ownedTask(ctx, uow, ownerID, taskID)
		if err != nil {
			return err
		}
		if err := change(uow, task); err != nil {
			return err
		}

		return uow.Tasks().Update(ctx, task)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update task")
	}
	srv.log(ctx).Debug("Task updated", slog.Any("taskID", taskID), slog.Any("userID", ownerID))

	return srv.reload(ctx, uow, taskID)
}

func (srv *taskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	return repository.RunInTransaction(ctx, uow, func() error {
		if _, err := ownedTask(ctx, uow, ownerID, taskID); err != nil {
			return err
		}

		deleted, err := uow.Tasks().Delete(ctx, taskID)
		if err != nil {
			return errors.Wrap(err, "failed to delete task")
		}
		if !deleted {
			return domainerrors.ErrTaskNotFound
		}

		return nil
	})
}

// Stats reads both counts inside one transaction so they describe the same snapshot.
func (srv *taskService) Stats(ctx context.Context, ownerID uuid.UUID) (entity.TaskStats, error) {
	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	var total, completed int64
	err := repository.RunInTransaction(ctx, uow, func() error {
		var err error
		if total, err = uow.Tasks().CountByOwner(ctx, ownerID); err != nil {
			return err
		}
		completed, err = uow.Tasks().CountCompletedByOwner(ctx, ownerID)

		return err
	})
	if err != nil {
		return entity.TaskStats{}, errors.Wrap(err, "failed to count tasks")
	}

	return entity.NewTaskStats(total, completed), nil
}

func (srv *taskService) reload(ctx context.Context, uow repository.UnitOfWork, taskID uuid.UUID) (*entity.Task, error) {
	task, err := uow.Tasks().FindByID(ctx, taskID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload task")
	}
	if task == nil {
		return nil, domainerrors.ErrTaskNotFound
	}

	return task, nil
}

// ownedTask returns the task when ownerID owns it. NotFound wins over Forbidden.
func ownedTask(ctx context.Context, uow repository.UnitOfWork, ownerID, taskID uuid.UUID) (*entity.Task, error) {
	task, err := uow.Tasks().FindByID(ctx, taskID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find task")
	}
	if task == nil {
		return nil, domainerrors.ErrTaskNotFound
	}
	if !task.IsOwnedBy(ownerID) {
		return nil, domainerrors.ErrForbidden
	}

	return task, nil
}

func requireCategory(ctx context.Context, uow repository.UnitOfWork, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}

	exists, err := uow.Categories().Exists(ctx, *categoryID)
	if err != nil {
		return errors.Wrap(err, "failed to check category")
	}
	if !exists {
		return domainerrors.ErrCategoryNotFound
	}

	return nil
}

func validateTask(title string, status entity.TaskStatus, priority entity.TaskPriority) error {
	switch {
	case strings.TrimSpace(title) == "":
		return domainerrors.ErrValidationFailed.WithDetails("title is required")
	case !status.IsValid():
		return domainerrors.ErrValidationFailed.WithDetails("unknown status " + string(status))
	case !priority.IsValid():
		return domainerrors.ErrValidationFailed.WithDetails("unknown priority " + string(priority))
	}

	return nil
}
