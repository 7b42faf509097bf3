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

// userRepository implements repository.UserRepository on the unit of work's session.
type userRepository struct {
	s *session
}

func (r *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	db, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.UserModel
	if err := db.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(rows))
	for i := range rows {
		users = append(users, toUserDomain(&rows[i]))
	}

	return users, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email = ?", entity.NormalizeEmail(email))
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	db, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var userM model.UserModel
	if err := db.Where(query, arg).Take(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user")
	}

	return toUserDomain(&userM), nil
}

func (r *userRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, "id = ?", id)
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", entity.NormalizeEmail(email))
}

func (r *userRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	db, err := r.s.conn(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	if err := db.Model(&model.UserModel{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check user existence")
	}

	return count > 0, nil
}

// Create persists user. The email is folded before insert; the unique index settles races
// that slip past the caller's EmailExists pre-check.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	db, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	userM := fromUserDomain(user)
	if userM.ID == uuid.Nil {
		userM.ID = uuid.Must(uuid.NewV7())
	}
	now := time.Now().UTC()
	userM.CreatedAt = now
	userM.UpdatedAt = now

	result := db.Create(userM)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrDuplicateEmail.WrapMessage("failed to create user")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to create user")
	}
	r.s.track(result.RowsAffected)

	user.ID = userM.ID
	user.Email = userM.Email
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	db, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	var current model.UserModel
	if err := db.Where("id = ?", user.ID).Take(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to load user")
	}

	now := time.Now().UTC()
	email := entity.NormalizeEmail(user.Email)
	result := db.Model(&model.UserModel{}).Where("id = ?", user.ID).Updates(map[string]any{
		"email":         email,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"password_hash": user.PasswordHash,
		"updated_at":    now,
	})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrDuplicateEmail.WrapMessage("failed to update user")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user")
	}
	r.s.track(result.RowsAffected)

	user.Email = email
	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = now

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	db, err := r.s.conn(ctx)
	if err != nil {
		return false, err
	}

	result := db.Where("id = ?", id).Delete(&model.UserModel{})
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user")
	}
	r.s.track(result.RowsAffected)

	return result.RowsAffected > 0, nil
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Email:        data.Email,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
// Timestamps are left for the repository to set.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.ID,
		Email:        entity.NormalizeEmail(data.Email),
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		PasswordHash: data.PasswordHash,
	}
}
