package gormrepo

import (
	"context"
	"testing"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAssignsIdentity(t *testing.T) {
	uow, _ := newTestUnit(t)

	user := createUser(t, uow, "Alice@Example.com")

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestUserRepository_FindByEmailIsCaseInsensitive(t *testing.T) {
	uow, _ := newTestUnit(t)
	ctx := context.Background()
	created := createUser(t, uow, "alice@example.com")

	found, err := uow.Users().FindByEmail(ctx, "ALICE@example.COM")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	exists, err := uow.Users().EmailExists(ctx, " Alice@Example.com ")
	require.NoError(t, err)
	assert.True(t, exists)

	missing, err := uow.Users().FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	uow, _ := newTestUnit(t)
	createUser(t, uow, "alice@example.com")

	err := uow.Users().Create(context.Background(), &entity.User{
		Email:        "ALICE@example.com",
		FirstName:    "Other",
		LastName:     "Alice",
		PasswordHash: "hash",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
}

func TestUserRepository_FindByIDAbsent(t *testing.T) {
	uow, _ := newTestUnit(t)

	user, err := uow.Users().FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, user)

	exists, err := uow.Users().Exists(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_Update(t *testing.T) {
	uow, _ := newTestUnit(t)
	ctx := context.Background()
	user := createUser(t, uow, "alice@example.com")

	user.FirstName = "Alicia"
	user.Email = "Alicia@Example.com"
	require.NoError(t, uow.Users().Update(ctx, user))

	reloaded, err := uow.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, "Alicia", reloaded.FirstName)
	assert.Equal(t, "alicia@example.com", reloaded.Email)
	assert.True(t, !reloaded.UpdatedAt.Before(reloaded.CreatedAt))
}

func TestUserRepository_UpdateUnknown(t *testing.T) {
	uow, _ := newTestUnit(t)

	err := uow.Users().Update(context.Background(), &entity.User{ID: uuid.New(), Email: "ghost@example.com"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestUserRepository_UpdateIntoTakenEmail(t *testing.T) {
	uow, _ := newTestUnit(t)
	createUser(t, uow, "alice@example.com")
	bob := createUser(t, uow, "bob@example.com")

	bob.Email = "alice@example.com"
	err := uow.Users().Update(context.Background(), bob)

	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
}

func TestUserRepository_DeleteReportsExistence(t *testing.T) {
	uow, _ := newTestUnit(t)
	ctx := context.Background()
	user := createUser(t, uow, "alice@example.com")
	createTask(t, uow, user.ID, "owned", nil)

	deleted, err := uow.Users().Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = uow.Users().Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	count, err := uow.Tasks().CountByOwner(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUserRepository_List(t *testing.T) {
	uow, _ := newTestUnit(t)
	createUser(t, uow, "a@example.com")
	createUser(t, uow, "b@example.com")

	users, err := uow.Users().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
