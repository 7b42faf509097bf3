// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// UserRepository defines the standard operations for user persistence.
// Emails are compared case-insensitively everywhere.
type UserRepository interface {
	// List returns every user, oldest first.
	List(ctx context.Context) ([]*entity.User, error)

	// FindByID returns the user or nil when no row has that id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail returns the user or nil when the email is unknown.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Exists reports whether a user with id exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// EmailExists reports whether the email is already registered.
	EmailExists(ctx context.Context, email string) (bool, error)

	// Create assigns an id and timestamps, then persists the user.
	// A unique violation on email surfaces as DuplicateEmail.
	Create(ctx context.Context, user *entity.User) error

	// Update writes the mutable fields (email, names, password hash).
	// An unknown id surfaces as NotFound.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes the user and reports whether it existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
