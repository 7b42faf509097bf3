package gormrepo

import (
	"context"
	"testing"

	"taskhub/config"
	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the schema migrated.
// A single connection keeps every statement on the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1",
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(context.Background(), db))

	return db
}

func newTestUnit(t *testing.T) (repository.UnitOfWork, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	uow := NewUnitOfWorkFactory(db).New(context.Background())
	t.Cleanup(func() { _ = uow.Close() })

	return uow, db
}

func createUser(t *testing.T, uow repository.UnitOfWork, email string) *entity.User {
	t.Helper()

	user := &entity.User{
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "$2a$04$placeholderplaceholderplaceholderplaceholderplacehold",
	}
	require.NoError(t, uow.Users().Create(context.Background(), user))

	return user
}

func createTask(t *testing.T, uow repository.UnitOfWork, owner uuid.UUID, title string, categoryID *uuid.UUID) *entity.Task {
	t.Helper()

	task := &entity.Task{
		Title:      title,
		Status:     entity.TaskStatusTodo,
		Priority:   entity.TaskPriorityMedium,
		UserID:     owner,
		CategoryID: categoryID,
	}
	require.NoError(t, uow.Tasks().Create(context.Background(), task))

	return task
}
