package gormrepo

import (
	"context"
	"strings"
	"time"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/errors"
	"taskhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ownerColumns keeps password hashes out of preloaded task owners.
var ownerColumns = []string{"id", "email", "first_name", "last_name", "created_at", "updated_at"}

// taskRepository implements repository.TaskRepository on the unit of work's session.
type taskRepository struct {
	s *session
}

// query starts a task read with owner and category preloaded, newest first.
func (r *taskRepository) query(ctx context.Context) (*gorm.DB, error) {
	db, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}

	return db.Model(&model.TaskModel{}).
		Preload("User", func(tx *gorm.DB) *gorm.DB { return tx.Select(ownerColumns) }).
		Preload("Category").
		Order("tasks.created_at DESC"), nil
}

func (r *taskRepository) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*entity.Task, error) {
	db, err := r.query(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.TaskModel
	if err := db.Scopes(scope).Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to query tasks")
	}

	tasks := make([]*entity.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, toTaskDomain(&rows[i]))
	}

	return tasks, nil
}

func where(query string, args ...any) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

func (r *taskRepository) List(ctx context.Context) ([]*entity.Task, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB { return db })
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	db, err := r.query(ctx)
	if err != nil {
		return nil, err
	}

	var taskM model.TaskModel
	if err := db.Where("tasks.id = ?", id).Take(&taskM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find task")
	}

	return toTaskDomain(&taskM), nil
}

func (r *taskRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	count, err := r.count(ctx, where("id = ?", id))
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	db, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	taskM := fromTaskDomain(task)
	if taskM.ID == uuid.Nil {
		taskM.ID = uuid.Must(uuid.NewV7())
	}
	now := time.Now().UTC()
	taskM.CreatedAt = now
	taskM.UpdatedAt = now

	result := db.Omit(clause.Associations).Create(taskM)
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrCategoryNotFound.WrapMessage("failed to create task")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to create task")
	}
	r.s.track(result.RowsAffected)

	task.ID = taskM.ID
	task.CreatedAt = taskM.CreatedAt
	task.UpdatedAt = taskM.UpdatedAt

	return nil
}

// Update never writes user_id or created_at.
func (r *taskRepository) Update(ctx context.Context, task *entity.Task) error {
	db, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	var current model.TaskModel
	if err := db.Where("id = ?", task.ID).Take(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrTaskNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to load task")
	}

	var categoryID any
	if task.CategoryID != nil {
		categoryID = *task.CategoryID
	}

	now := time.Now().UTC()
	result := db.Model(&model.TaskModel{}).Where("id = ?", task.ID).Updates(map[string]any{
		"title":       task.Title,
		"description": task.Description,
		"status":      string(task.Status),
		"priority":    string(task.Priority),
		"category_id": categoryID,
		"updated_at":  now,
	})
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrCategoryNotFound.WrapMessage("failed to update task")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update task")
	}
	r.s.track(result.RowsAffected)

	task.UserID = current.UserID
	task.CreatedAt = current.CreatedAt
	task.UpdatedAt = now

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	db, err := r.s.conn(ctx)
	if err != nil {
		return false, err
	}

	result := db.Where("id = ?", id).Delete(&model.TaskModel{})
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete task")
	}
	r.s.track(result.RowsAffected)

	return result.RowsAffected > 0, nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*entity.Task, error) {
	return r.find(ctx, where("tasks.user_id = ?", userID))
}

func (r *taskRepository) ListByOwnerAndStatus(ctx context.Context, userID uuid.UUID, status entity.TaskStatus) ([]*entity.Task, error) {
	return r.find(ctx, where("tasks.user_id = ? AND tasks.status = ?", userID, string(status)))
}

func (r *taskRepository) ListByOwnerAndPriority(ctx context.Context, userID uuid.UUID, priority entity.TaskPriority) ([]*entity.Task, error) {
	return r.find(ctx, where("tasks.user_id = ? AND tasks.priority = ?", userID, string(priority)))
}

func (r *taskRepository) ListByOwnerAndCategory(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID) ([]*entity.Task, error) {
	if categoryID == nil {
		return r.find(ctx, where("tasks.user_id = ? AND tasks.category_id IS NULL", userID))
	}

	return r.find(ctx, where("tasks.user_id = ? AND tasks.category_id = ?", userID, *categoryID))
}

func (r *taskRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Task, error) {
	return r.find(ctx, where("tasks.category_id = ?", categoryID))
}

func (r *taskRepository) ListByStatus(ctx context.Context, status entity.TaskStatus) ([]*entity.Task, error) {
	return r.find(ctx, where("tasks.status = ?", string(status)))
}

func (r *taskRepository) ListByPriority(ctx context.Context, priority entity.TaskPriority) ([]*entity.Task, error) {
	return r.find(ctx, where("tasks.priority = ?", string(priority)))
}

func (r *taskRepository) ListOverdue(ctx context.Context, now time.Time) ([]*entity.Task, error) {
	cutoff := now.UTC().Add(-entity.OverdueAfter)

	return r.find(ctx, where("tasks.status <> ? AND tasks.created_at < ?", string(entity.TaskStatusDone), cutoff))
}

func (r *taskRepository) Search(ctx context.Context, userID uuid.UUID, term string) ([]*entity.Task, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		return searchScope(db.Where("tasks.user_id = ?", userID), term)
	})
}

func (r *taskRepository) Filter(ctx context.Context, userID uuid.UUID, filter entity.TaskFilter) ([]*entity.Task, error) {
	filter.Normalize()

	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		db = db.Where("tasks.user_id = ?", userID)
		if filter.Status != nil {
			db = db.Where("tasks.status = ?", string(*filter.Status))
		}
		if filter.Priority != nil {
			db = db.Where("tasks.priority = ?", string(*filter.Priority))
		}
		if filter.CategoryID != nil {
			db = db.Where("tasks.category_id = ?", *filter.CategoryID)
		}
		if filter.CreatedFrom != nil {
			db = db.Where("tasks.created_at >= ?", filter.CreatedFrom.UTC())
		}
		if filter.CreatedTo != nil {
			db = db.Where("tasks.created_at <= ?", filter.CreatedTo.UTC())
		}
		db = searchScope(db, filter.Search)

		return db.Offset(filter.Offset()).Limit(filter.PageSize)
	})
}

// searchScope matches term case-insensitively in title or description. A blank term matches all.
func searchScope(db *gorm.DB, term string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" {
		return db
	}

	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	return db.Where("(LOWER(tasks.title) LIKE ? ESCAPE '\\' OR LOWER(tasks.description) LIKE ? ESCAPE '\\')", pattern, pattern)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *taskRepository) CountByOwner(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, where("user_id = ?", userID))
}

func (r *taskRepository) CountCompletedByOwner(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, where("user_id = ? AND status = ?", userID, string(entity.TaskStatusDone)))
}

func (r *taskRepository) count(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	db, err := r.s.conn(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.TaskModel{}).Scopes(scope).Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count tasks")
	}

	return count, nil
}

// --- Mapper Functions ---

func toTaskDomain(data *model.TaskModel) *entity.Task {
	if data == nil {
		return nil
	}

	task := &entity.Task{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		Status:      entity.TaskStatus(data.Status),
		Priority:    entity.TaskPriority(data.Priority),
		UserID:      data.UserID,
		CategoryID:  data.CategoryID,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
	if data.User != nil {
		task.Owner = toUserDomain(data.User)
	}
	if data.Category != nil {
		task.Category = toCategoryDomain(data.Category, 0)
	}

	return task
}

// fromTaskDomain copies the writable task fields. Associations are never written through it.
func fromTaskDomain(data *entity.Task) *model.TaskModel {
	if data == nil {
		return nil
	}

	return &model.TaskModel{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		Status:      string(data.Status),
		Priority:    string(data.Priority),
		UserID:      data.UserID,
		CategoryID:  data.CategoryID,
	}
}
