package gormrepo

import (
	"context"
	"database/sql"

	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/errors"

	"gorm.io/gorm"
)

// session is the storage handle shared by one unit of work and its repositories.
// While a transaction is open every repository call runs on it.
type session struct {
	base    *gorm.DB
	tx      *gorm.DB
	written int64
	closed  bool
}

// conn returns the handle repository calls must use.
func (s *session) conn(ctx context.Context) (*gorm.DB, error) {
	if s.closed {
		return nil, repository.ErrUnitOfWorkClosed
	}
	if s.tx != nil {
		return s.tx.WithContext(ctx), nil
	}

	return s.base.WithContext(ctx), nil
}

func (s *session) track(rows int64) {
	s.written += rows
}

// unitOfWork implements repository.UnitOfWork on a gorm session.
type unitOfWork struct {
	s          *session
	users      *userRepository
	tasks      *taskRepository
	categories *categoryRepository
}

func newUnitOfWork(db *gorm.DB) *unitOfWork {
	s := &session{base: db}

	return &unitOfWork{
		s:          s,
		users:      &userRepository{s: s},
		tasks:      &taskRepository{s: s},
		categories: &categoryRepository{s: s},
	}
}

func (u *unitOfWork) Users() repository.UserRepository {
	return u.users
}

func (u *unitOfWork) Tasks() repository.TaskRepository {
	return u.tasks
}

func (u *unitOfWork) Categories() repository.CategoryRepository {
	return u.categories
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.s.closed {
		return repository.ErrUnitOfWorkClosed
	}
	if u.s.tx != nil {
		return repository.ErrTransactionInProgress
	}

	tx := u.s.base.WithContext(ctx).Begin()
	if tx.Error != nil {
		return domainerrors.NewDatabaseExecuteError(tx.Error, "failed to begin transaction")
	}
	u.s.tx = tx

	return nil
}

func (u *unitOfWork) Commit(_ context.Context) error {
	if u.s.closed {
		return repository.ErrUnitOfWorkClosed
	}

	tx := u.release()
	if tx == nil {
		return repository.ErrNoTransaction
	}

	if err := tx.Commit().Error; err != nil {
		// The driver may already have ended the transaction; ErrTxDone is expected then.
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, rbErr)
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to commit transaction")
	}

	return nil
}

func (u *unitOfWork) Rollback(_ context.Context) error {
	if u.s.closed {
		return repository.ErrUnitOfWorkClosed
	}

	tx := u.release()
	if tx == nil {
		return repository.ErrNoTransaction
	}

	if err := tx.Rollback().Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to roll back transaction")
	}

	return nil
}

// SaveChanges reports the rows written since the last call. GORM executes writes
// immediately, so there is nothing left to flush.
func (u *unitOfWork) SaveChanges(_ context.Context) (int64, error) {
	if u.s.closed {
		return 0, repository.ErrUnitOfWorkClosed
	}

	written := u.s.written
	u.s.written = 0

	return written, nil
}

func (u *unitOfWork) Close() error {
	if u.s.closed {
		return nil
	}
	u.s.closed = true

	tx := u.release()
	if tx == nil {
		return nil
	}

	if err := tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		return domainerrors.NewDatabaseExecuteError(err, "failed to roll back transaction on close")
	}

	return nil
}

// release detaches the open transaction so no path can end it twice.
func (u *unitOfWork) release() *gorm.DB {
	tx := u.s.tx
	u.s.tx = nil

	return tx
}

// UnitOfWorkFactory hands out one unit of work per logical request.
type UnitOfWorkFactory struct {
	db *gorm.DB
}

// NewUnitOfWorkFactory is the fx provider for repository.UnitOfWorkFactory.
func NewUnitOfWorkFactory(db *gorm.DB) repository.UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db}
}

// New returns a fresh unit of work bound to ctx's request.
func (f *UnitOfWorkFactory) New(_ context.Context) repository.UnitOfWork {
	return newUnitOfWork(f.db)
}
