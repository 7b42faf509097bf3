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

// categoryService implements the CategoryUsecase interface.
type categoryService struct {
	uowFactory repository.UnitOfWorkFactory
	logger     *slog.Logger
}

// CategoryServiceParams holds dependencies for CategoryService, injected by Fx.
type CategoryServiceParams struct {
	fx.In

	UnitOfWorkFactory repository.UnitOfWorkFactory
	Logger            *slog.Logger
}

// NewCategoryService is the constructor for categoryService.
func NewCategoryService(params CategoryServiceParams) usecase.CategoryUsecase {
	return &categoryService{
		uowFactory: params.UnitOfWorkFactory,
		logger:     params.Logger,
	}
}

func (srv *categoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *categoryService) List(ctx context.Context) ([]*entity.Category, error) {
	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	categories, err := uow.Categories().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

func (srv *categoryService) Get(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	return findCategory(ctx, uow, id)
}

// Create adds a category. Names are unique ignoring case.
func (srv *categoryService) Create(ctx context.Context, input usecase.CategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name is required")
	}

	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	if err := ensureNameFree(ctx, uow, name, uuid.Nil); err != nil {
		return nil, err
	}

	category := &entity.Category{Name: name, Description: input.Description}
	if err := uow.Categories().Create(ctx, category); err != nil {
		return nil, errors.Wrap(err, "failed to create category")
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to save category")
	}
	srv.log(ctx).Debug("Category created", slog.Any("categoryID", category.ID), slog.String("name", name))

	return category, nil
}

// Update renames or re-describes a category. A name held by another category is a conflict.
func (srv *categoryService) Update(ctx context.Context, id uuid.UUID, input usecase.CategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name is required")
	}

	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	var updated *entity.Category
	err := repository.RunInTransaction(ctx, uow, func() error {
		category, err := findCategory(ctx, uow, id)
		if err != nil {
			return err
		}
		if err := ensureNameFree(ctx, uow, name, id); err != nil {
			return err
		}

		category.Name = name
		category.Description = input.Description
		if err := uow.Categories().Update(ctx, category); err != nil {
			return errors.Wrap(err, "failed to update category")
		}
		updated = category

		return nil
	})
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Debug("Category updated", slog.Any("categoryID", id))

	return updated, nil
}

// Delete removes the category. Its tasks survive uncategorized.
func (srv *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	deleted, err := uow.Categories().Delete(ctx, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete category")
	}
	if !deleted {
		return domainerrors.ErrCategoryNotFound
	}
	srv.log(ctx).Debug("Category deleted", slog.Any("categoryID", id))

	return nil
}

func findCategory(ctx context.Context, uow repository.UnitOfWork, id uuid.UUID) (*entity.Category, error) {
	category, err := uow.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find category")
	}
	if category == nil {
		return nil, domainerrors.ErrCategoryNotFound
	}

	return category, nil
}

// ensureNameFree fails when a category other than self already uses name.
func ensureNameFree(ctx context.Context, uow repository.UnitOfWork, name string, self uuid.UUID) error {
	existing, err := uow.Categories().FindByName(ctx, name)
	if err != nil {
		return errors.Wrap(err, "failed to find category by name")
	}
	if existing != nil && existing.ID != self {
		return domainerrors.ErrDuplicateCategory.WrapMessage("category name taken")
	}

	return nil
}
