package gormrepo

import (
	"context"
	"time"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/errors"
	"taskhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const selectWithTaskCount = "categories.*, (SELECT COUNT(*) FROM tasks WHERE tasks.category_id = categories.id) AS task_count"

// categoryRow is a category read together with the number of tasks referencing it.
type categoryRow struct {
	model.CategoryModel
	TaskCount int64
}

// categoryRepository implements repository.CategoryRepository on the unit of work's session.
type categoryRepository struct {
	s *session
}

func (r *categoryRepository) withCounts(ctx context.Context) (*gorm.DB, error) {
	db, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}

	return db.Model(&model.CategoryModel{}).Select(selectWithTaskCount), nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	db, err := r.withCounts(ctx)
	if err != nil {
		return nil, err
	}

	var rows []categoryRow
	if err := db.Order("categories.name ASC").Scan(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list categories")
	}

	categories := make([]*entity.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, toCategoryDomain(&rows[i].CategoryModel, rows[i].TaskCount))
	}

	return categories, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	return r.findOne(ctx, "categories.id = ?", id)
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.findOne(ctx, "categories.name_key = ?", entity.NormalizeCategoryName(name))
}

func (r *categoryRepository) findOne(ctx context.Context, query string, arg any) (*entity.Category, error) {
	db, err := r.withCounts(ctx)
	if err != nil {
		return nil, err
	}

	var rows []categoryRow
	if err := db.Where(query, arg).Limit(1).Scan(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find category")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return toCategoryDomain(&rows[0].CategoryModel, rows[0].TaskCount), nil
}

func (r *categoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	db, err := r.s.conn(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	if err := db.Model(&model.CategoryModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check category existence")
	}

	return count > 0, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	db, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	categoryM := fromCategoryDomain(category)
	if categoryM.ID == uuid.Nil {
		categoryM.ID = uuid.Must(uuid.NewV7())
	}
	categoryM.CreatedAt = time.Now().UTC()

	result := db.Create(categoryM)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrDuplicateCategory.WrapMessage("failed to create category")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to create category")
	}
	r.s.track(result.RowsAffected)

	category.ID = categoryM.ID
	category.CreatedAt = categoryM.CreatedAt

	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	db, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	var current model.CategoryModel
	if err := db.Where("id = ?", category.ID).Take(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrCategoryNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to load category")
	}

	var description any
	if category.Description != nil {
		description = *category.Description
	}

	result := db.Model(&model.CategoryModel{}).Where("id = ?", category.ID).Updates(map[string]any{
		"name":        category.Name,
		"name_key":    entity.NormalizeCategoryName(category.Name),
		"description": description,
	})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrDuplicateCategory.WrapMessage("failed to update category")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update category")
	}
	r.s.track(result.RowsAffected)

	category.CreatedAt = current.CreatedAt

	return nil
}

// Delete detaches referencing tasks and removes the category in one transaction, or in a
// savepoint when the unit of work already has one open.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	db, err := r.s.conn(ctx)
	if err != nil {
		return false, err
	}

	var existed bool
	var written int64
	err = db.Transaction(func(tx *gorm.DB) error {
		detached := tx.Model(&model.TaskModel{}).Where("category_id = ?", id).Update("category_id", nil)
		if detached.Error != nil {
			return detached.Error
		}

		removed := tx.Where("id = ?", id).Delete(&model.CategoryModel{})
		if removed.Error != nil {
			return removed.Error
		}

		existed = removed.RowsAffected > 0
		written = detached.RowsAffected + removed.RowsAffected

		return nil
	})
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to delete category")
	}
	r.s.track(written)

	return existed, nil
}

func (r *categoryRepository) CountTasks(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	db, err := r.s.conn(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.TaskModel{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count category tasks")
	}

	return count, nil
}

// --- Mapper Functions ---

func toCategoryDomain(data *model.CategoryModel, taskCount int64) *entity.Category {
	if data == nil {
		return nil
	}

	return &entity.Category{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
		TaskCount:   taskCount,
	}
}

func fromCategoryDomain(data *entity.Category) *model.CategoryModel {
	if data == nil {
		return nil
	}

	return &model.CategoryModel{
		ID:          data.ID,
		Name:        data.Name,
		NameKey:     entity.NormalizeCategoryName(data.Name),
		Description: data.Description,
	}
}
