package gormrepo

import (
	"context"
	"testing"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_RepositoriesShareSession(t *testing.T) {
	uow, _ := newTestUnit(t)

	assert.Same(t, uow.Users(), uow.Users())
	assert.Same(t, uow.Tasks(), uow.Tasks())
	assert.Same(t, uow.Categories(), uow.Categories())
}

func TestUnitOfWork_BeginTwice(t *testing.T) {
	uow, _ := newTestUnit(t)
	ctx := context.Background()

	require.NoError(t, uow.Begin(ctx))
	assert.ErrorIs(t, uow.Begin(ctx), repository.ErrTransactionInProgress)
	require.NoError(t, uow.Rollback(ctx))
}

func TestUnitOfWork_CommitAndRollbackWithoutTransaction(t *testing.T) {
	uow, _ := newTestUnit(t)
	ctx := context.Background()

	assert.ErrorIs(t, uow.Commit(ctx), repository.ErrNoTransaction)
	assert.ErrorIs(t, uow.Rollback(ctx), repository.ErrNoTransaction)
}

func TestUnitOfWork_CommitPersists(t *testing.T) {
	uow, db := newTestUnit(t)
	ctx := context.Background()

	require.NoError(t, uow.Begin(ctx))
	user := createUser(t, uow, "alice@example.com")
	require.NoError(t, uow.Commit(ctx))

	other := NewUnitOfWorkFactory(db).New(ctx)
	defer other.Close()

	found, err := other.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, found)

	// The handle was released: a second commit has nothing to commit.
	assert.ErrorIs(t, uow.Commit(ctx), repository.ErrNoTransaction)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	uow, _ := newTestUnit(t)
	ctx := context.Background()

	require.NoError(t, uow.Begin(ctx))
	user := createUser(t, uow, "alice@example.com")
	require.NoError(t, uow.Rollback(ctx))

	found, err := uow.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	// A fresh transaction can be opened after rollback.
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.Rollback(ctx))
}

func TestUnitOfWork_CloseRollsBackAndIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	factory := NewUnitOfWorkFactory(db)

	uow := factory.New(ctx)
	require.NoError(t, uow.Begin(ctx))
	user := createUser(t, uow, "alice@example.com")

	require.NoError(t, uow.Close())
	require.NoError(t, uow.Close())

	assert.ErrorIs(t, uow.Begin(ctx), repository.ErrUnitOfWorkClosed)
	_, err := uow.Users().FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUnitOfWorkClosed)
	_, err = uow.SaveChanges(ctx)
	assert.ErrorIs(t, err, repository.ErrUnitOfWorkClosed)

	fresh := factory.New(ctx)
	defer fresh.Close()
	found, err := fresh.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUnitOfWork_SaveChangesReportsAndResets(t *testing.T) {
	uow, _ := newTestUnit(t)
	ctx := context.Background()

	written, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Zero(t, written)

	user := createUser(t, uow, "alice@example.com")
	createTask(t, uow, user.ID, "one", nil)

	written, err = uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, written)

	written, err = uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Zero(t, written)
}

func TestRunInTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		uow, _ := newTestUnit(t)
		var user *entity.User

		err := repository.RunInTransaction(ctx, uow, func() error {
			user = createUser(t, uow, "alice@example.com")
			return nil
		})
		require.NoError(t, err)

		found, err := uow.Users().FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, found)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		uow, _ := newTestUnit(t)
		boom := errors.New("boom")
		var user *entity.User

		err := repository.RunInTransaction(ctx, uow, func() error {
			user = createUser(t, uow, "alice@example.com")
			return boom
		})
		assert.ErrorIs(t, err, boom)

		found, err := uow.Users().FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("rolls back and repanics", func(t *testing.T) {
		uow, _ := newTestUnit(t)
		var user *entity.User

		assert.PanicsWithValue(t, "boom", func() {
			_ = repository.RunInTransaction(ctx, uow, func() error {
				user = createUser(t, uow, "alice@example.com")
				panic("boom")
			})
		})

		found, err := uow.Users().FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
		require.NoError(t, uow.Begin(ctx), "transaction handle must be released after a panic")
		require.NoError(t, uow.Rollback(ctx))
	})

	t.Run("refuses nested transactions", func(t *testing.T) {
		uow, _ := newTestUnit(t)
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback(ctx)

		err := repository.RunInTransaction(ctx, uow, func() error { return nil })
		assert.ErrorIs(t, err, repository.ErrTransactionInProgress)
	})
}

func TestUnitOfWork_CommitFailure(t *testing.T) {
	ctx := context.Background()
	uow, db := newTestUnit(t)

	require.NoError(t, uow.Begin(ctx))
	// Defer the foreign key check so the dangling category surfaces at COMMIT.
	require.NoError(t, uow.(*unitOfWork).s.tx.Exec("PRAGMA defer_foreign_keys = ON").Error)

	owner := createUser(t, uow, "alice@example.com")
	missing := uuid.New()
	createTask(t, uow, owner.ID, "Orphan", &missing)

	err := uow.Commit(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrStorageFailure)

	var tasks, users int64
	require.NoError(t, db.Table("tasks").Count(&tasks).Error)
	require.NoError(t, db.Table("users").Count(&users).Error)
	assert.Zero(t, tasks)
	assert.Zero(t, users)

	require.NoError(t, uow.Begin(ctx), "transaction handle must be released after a failed commit")
	require.NoError(t, uow.Rollback(ctx))
}
