package repository

import (
	"context"
	"fmt"

	"taskhub/internal/errors"
)

// Unit-of-work state errors.
var (
	ErrTransactionInProgress = errors.New("a transaction is already in progress")
	ErrNoTransaction         = errors.New("no transaction is in progress")
	ErrUnitOfWorkClosed      = errors.New("unit of work is closed")
)

// UnitOfWork bundles one storage session with the three repositories built on it.
// It belongs to a single logical request and must not be shared between goroutines.
type UnitOfWork interface {
	Users() UserRepository
	Tasks() TaskRepository
	Categories() CategoryRepository

	// Begin opens a transaction. Only one may be open at a time.
	Begin(ctx context.Context) error

	// Commit commits the open transaction. If the commit fails the transaction is
	// rolled back before the error is returned.
	Commit(ctx context.Context) error

	// Rollback aborts the open transaction. The handle is released even when the
	// rollback itself fails.
	Rollback(ctx context.Context) error

	// SaveChanges is the flush path for single-step writes outside a transaction.
	// It returns how many rows were written through this unit since the last call.
	SaveChanges(ctx context.Context) (int64, error)

	// Close rolls back any open transaction and ends the unit. Safe to call twice.
	Close() error
}

// UnitOfWorkFactory creates a fresh UnitOfWork per logical request.
type UnitOfWorkFactory interface {
	New(ctx context.Context) UnitOfWork
}

// RunInTransaction runs fn inside a transaction on uow.
// If fn returns an error or panics, the transaction is rolled back. Otherwise, it's committed.
func RunInTransaction(ctx context.Context, uow UnitOfWork, fn func() error) (err error) {
	if err := uow.Begin(ctx); err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			_ = uow.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(); err != nil {
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("transaction rollback failed: %v (original error: %w)", rbErr, err)
		}

		return err
	}

	return uow.Commit(ctx)
}
