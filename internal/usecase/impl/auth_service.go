// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/domain/service"
	logs "taskhub/internal/infra/log"
	"taskhub/internal/infra/metrics"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	msgRegistered = "User registered successfully"
	msgLoggedIn   = "Login successful"
)

// authService implements the AuthUsecase interface.
type authService struct {
	uowFactory   repository.UnitOfWorkFactory
	hasher       service.PasswordHasher
	tokenService service.TokenService
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UnitOfWorkFactory repository.UnitOfWorkFactory
	Hasher            service.PasswordHasher
	TokenService      service.TokenService
	Metrics           *metrics.Metrics
	Logger            *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		uowFactory:   params.UnitOfWorkFactory,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		metrics:      params.Metrics,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates the account and signs the caller in.
// Received -> Validated -> Persisted -> TokenIssued.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (result *usecase.AuthResult, err error) {
	defer func() { srv.metrics.AuthAttempt(metrics.OpRegister, err == nil) }()

	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Debug("Registration received", slog.String("email", email))

	if input.Password != input.ConfirmPassword {
		return nil, domainerrors.ErrPasswordMismatch
	}

	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	exists, err := uow.Users().EmailExists(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check email availability")
	}
	if exists {
		return nil, domainerrors.ErrDuplicateEmail.WrapMessage("email already registered")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}
	srv.log(ctx).Debug("Registration validated", slog.String("email", email))

	user := &entity.User{
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hash,
	}

	// The unique index settles a race that slipped past the pre-check.
	if err := repository.RunInTransaction(ctx, uow, func() error {
		return uow.Users().Create(ctx, user)
	}); err != nil {
		srv.log(ctx).Warn("Failed to persist user", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}
	srv.log(ctx).Debug("User persisted", slog.Any("userID", user.ID))

	token, err := srv.tokenService.Issue(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token")
	}
	srv.log(ctx).Debug("Token issued", slog.Any("userID", user.ID))

	return newAuthResult(user, token, msgRegistered), nil
}

// Login checks the credentials and signs the caller in. Unknown email and wrong password
// are indistinguishable to the caller.
// Received -> Authenticated -> TokenIssued.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (result *usecase.AuthResult, err error) {
	defer func() { srv.metrics.AuthAttempt(metrics.OpLogin, err == nil) }()

	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Debug("Login received", slog.String("email", email))

	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	user, err := uow.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}
	if user == nil {
		return nil, domainerrors.ErrInvalidCredentials
	}

	ok, err := srv.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, domainerrors.ErrIntegrityCorruption) {
			srv.metrics.IntegrityCorruption()
			logs.Critical(ctx, srv.log(ctx), "Stored password hash is unreadable",
				slog.Any("userID", user.ID), slog.Any("error", err))
		}

		return nil, errors.Wrap(err, "failed to verify password")
	}
	if !ok {
		return nil, domainerrors.ErrInvalidCredentials
	}
	srv.log(ctx).Debug("User authenticated", slog.Any("userID", user.ID))

	token, err := srv.tokenService.Issue(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token")
	}
	srv.log(ctx).Debug("Token issued", slog.Any("userID", user.ID))

	return newAuthResult(user, token, msgLoggedIn), nil
}

// RefreshToken is not supported: refresh tokens are handed out but never stored.
func (srv *authService) RefreshToken(ctx context.Context, _ string) (*usecase.AuthResult, error) {
	srv.metrics.AuthAttempt(metrics.OpRefresh, false)
	srv.log(ctx).Debug("Refresh requested")

	return nil, domainerrors.ErrNotImplemented
}

// Logout has nothing to revoke and always succeeds.
func (srv *authService) Logout(ctx context.Context, _ string) (bool, error) {
	srv.metrics.AuthAttempt(metrics.OpLogout, true)
	srv.log(ctx).Debug("Logout requested")

	return true, nil
}

// CurrentUser loads the profile of an authenticated caller.
func (srv *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	uow := srv.uowFactory.New(ctx)
	defer closeUnit(ctx, srv.log(ctx), uow)

	user, err := uow.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}

	return user, nil
}

func newAuthResult(user *entity.User, token *entity.AuthToken, message string) *usecase.AuthResult {
	return &usecase.AuthResult{
		Success:      true,
		Token:        token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt,
		User:         user,
		Message:      message,
	}
}

// closeUnit ends a unit of work, rolling back anything left open.
func closeUnit(ctx context.Context, logger *slog.Logger, uow repository.UnitOfWork) {
	if err := uow.Close(); err != nil {
		logger.WarnContext(ctx, "Failed to close unit of work", slog.Any("error", err))
	}
}
