// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to open a new account.
type RegisterInput struct {
	Email           string
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// AuthResult is returned by every successful auth exchange.
// Token fields are empty for exchanges that issue nothing, such as logout.
type AuthResult struct {
	Success      bool
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
	User         *entity.User
	Message      string
}

// AuthUsecase defines the account and session operations.
// This is the contract that the delivery layer depends on.
type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)

	// RefreshToken always fails with NotImplemented; refresh tokens are never stored.
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)

	// Logout always succeeds. Access tokens stay valid until they expire.
	Logout(ctx context.Context, refreshToken string) (bool, error)

	CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}
