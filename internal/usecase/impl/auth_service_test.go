package impl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/infra/auth"
	"taskhub/internal/infra/metrics"
	mockSvc "taskhub/internal/mocks/service"
	"taskhub/internal/usecase"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service usecase.AuthUsecase
	factory repository.UnitOfWorkFactory
	tokens  interface {
		Validate(token string) bool
	}
	metrics *metrics.Metrics
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	t.Helper()

	factory := newUnitOfWorkFactory(t)
	tokens := newTokenService(t)
	m := newTestMetrics()

	service := NewAuthService(AuthServiceParams{
		UnitOfWorkFactory: factory,
		Hasher:            auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService:      tokens,
		Metrics:           m,
		Logger:            newDiscardLogger(),
	})

	return authServiceFixtures{service: service, factory: factory, tokens: tokens, metrics: m}
}

func aliceRegistration() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:           "Alice@Example.com",
		FirstName:       "Alice",
		LastName:        "Smith",
		Password:        "Sup3r-secret!",
		ConfirmPassword: "Sup3r-secret!",
	}
}

func authAttempts(m *metrics.Metrics, op, result string) float64 {
	return testutil.ToFloat64(m.AuthAttempts().WithLabelValues(op, result))
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	result, err := fx.service.Register(ctx, aliceRegistration())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.True(t, fx.tokens.Validate(result.Token))
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.NotEqual(t, "Sup3r-secret!", result.User.PasswordHash)
	assert.True(t, strings.HasPrefix(result.User.PasswordHash, "$2a$"))
	assert.Equal(t, 1.0, authAttempts(fx.metrics, metrics.OpRegister, metrics.ResultSuccess))

	uow := fx.factory.New(ctx)
	defer func() { _ = uow.Close() }()
	stored, err := uow.Users().FindByEmail(ctx, "ALICE@example.COM")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, result.User.ID, stored.ID)
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	input := aliceRegistration()
	input.ConfirmPassword = "something-else"

	result, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordMismatch)
	assert.Equal(t, 1.0, authAttempts(fx.metrics, metrics.OpRegister, metrics.ResultFailure))

	uow := fx.factory.New(ctx)
	defer func() { _ = uow.Close() }()
	exists, err := uow.Users().EmailExists(ctx, input.Email)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAuthService_Register_DuplicateEmailIgnoresCase(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	again := aliceRegistration()
	again.Email = "ALICE@EXAMPLE.COM"
	result, err := fx.service.Register(ctx, again)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)
	assert.Equal(t, domainerrors.CodeDuplicateEmail, domainerrors.KindOf(err))
}

func TestAuthService_Register_ConcurrentSameEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	const attempts = 6
	var (
		mu        sync.Mutex
		successes int
		failures  []error
	)

	var g errgroup.Group
	for range attempts {
		g.Go(func() error {
			_, err := fx.service.Register(ctx, aliceRegistration())

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else {
				failures = append(failures, err)
			}

			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, successes)
	require.Len(t, failures, attempts-1)
	for _, err := range failures {
		assert.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)
	}

	uow := fx.factory.New(ctx)
	defer func() { _ = uow.Close() }()
	users, err := uow.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

// blindFactory hands out units whose EmailExists never finds a match, so only the
// unique index can reject a duplicate.
type blindFactory struct {
	repository.UnitOfWorkFactory
}

func (f blindFactory) New(ctx context.Context) repository.UnitOfWork {
	return blindUnit{UnitOfWork: f.UnitOfWorkFactory.New(ctx)}
}

type blindUnit struct {
	repository.UnitOfWork
}

func (u blindUnit) Users() repository.UserRepository {
	return blindUsers{UserRepository: u.UnitOfWork.Users()}
}

type blindUsers struct {
	repository.UserRepository
}

func (blindUsers) EmailExists(context.Context, string) (bool, error) {
	return false, nil
}

func TestAuthService_Register_UniqueIndexRejectsDuplicate(t *testing.T) {
	factory := newUnitOfWorkFactory(t)
	service := NewAuthService(AuthServiceParams{
		UnitOfWorkFactory: blindFactory{UnitOfWorkFactory: factory},
		Hasher:            auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService:      newTokenService(t),
		Metrics:           newTestMetrics(),
		Logger:            newDiscardLogger(),
	})
	ctx := context.Background()

	_, err := service.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	result, err := service.Register(ctx, aliceRegistration())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)

	uow := factory.New(ctx)
	defer func() { _ = uow.Close() }()
	users, err := uow.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	fx := createTestAuthService(t)

	input := aliceRegistration()
	input.Password = strings.Repeat("x", 73)
	input.ConfirmPassword = input.Password

	_, err := fx.service.Register(context.Background(), input)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAuthService_Register_TokenFailureKeepsUser(t *testing.T) {
	factory := newUnitOfWorkFactory(t)
	tokens := mockSvc.NewMockTokenService(t)
	hasher := mockSvc.NewMockPasswordHasher(t)

	service := NewAuthService(AuthServiceParams{
		UnitOfWorkFactory: factory,
		Hasher:            hasher,
		TokenService:      tokens,
		Metrics:           newTestMetrics(),
		Logger:            newDiscardLogger(),
	})

	input := aliceRegistration()
	hasher.EXPECT().Hash(input.Password).Return("$2a$04$hash", nil)
	tokens.EXPECT().Issue(mock.AnythingOfType("*entity.User")).Return(nil, errors.New("signing failed"))

	_, err := service.Register(context.Background(), input)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to issue token")

	uow := factory.New(context.Background())
	defer func() { _ = uow.Close() }()
	exists, err := uow.Users().EmailExists(context.Background(), input.Email)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	registered, err := fx.service.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	result, err := fx.service.Login(ctx, usecase.LoginInput{Email: " alice@EXAMPLE.com ", Password: "Sup3r-secret!"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, fx.tokens.Validate(result.Token))
	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.Equal(t, 1.0, authAttempts(fx.metrics, metrics.OpLogin, metrics.ResultSuccess))
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	_, unknownErr := fx.service.Login(ctx, usecase.LoginInput{Email: "bob@example.com", Password: "Sup3r-secret!"})
	_, wrongErr := fx.service.Login(ctx, usecase.LoginInput{Email: "alice@example.com", Password: "wrong"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.ErrorIs(t, unknownErr, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, domainerrors.ErrInvalidCredentials)

	var unknownApp, wrongApp domainerrors.AppError
	require.ErrorAs(t, unknownErr, &unknownApp)
	require.ErrorAs(t, wrongErr, &wrongApp)
	assert.Equal(t, "Invalid email or password", unknownApp.Message())
	assert.Equal(t, unknownApp.Message(), wrongApp.Message())
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.Equal(t, 2.0, authAttempts(fx.metrics, metrics.OpLogin, metrics.ResultFailure))
}

func TestAuthService_Login_CorruptHash(t *testing.T) {
	factory := newUnitOfWorkFactory(t)
	m := newTestMetrics()
	logger, logBuf := newBufferLogger()

	service := NewAuthService(AuthServiceParams{
		UnitOfWorkFactory: factory,
		Hasher:            auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService:      newTokenService(t),
		Metrics:           m,
		Logger:            logger,
	})

	user := seedUser(t, factory, "carol@example.com", "not-a-bcrypt-hash")

	result, err := service.Login(context.Background(), usecase.LoginInput{Email: "carol@example.com", Password: "anything"})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domainerrors.ErrIntegrityCorruption)
	assert.NotErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IntegrityFailures()))

	logged := logBuf.String()
	assert.Contains(t, logged, `"level":"CRITICAL"`)
	assert.Contains(t, logged, `"alert":true`)
	assert.Contains(t, logged, user.ID.String())
}

func TestAuthService_RefreshToken_NotImplemented(t *testing.T) {
	fx := createTestAuthService(t)

	for _, token := range []string{"", "opaque", strings.Repeat("a", 88)} {
		t.Run(fmt.Sprintf("len=%d", len(token)), func(t *testing.T) {
			result, err := fx.service.RefreshToken(context.Background(), token)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, domainerrors.ErrNotImplemented)
		})
	}
	assert.Equal(t, 3.0, authAttempts(fx.metrics, metrics.OpRefresh, metrics.ResultFailure))
}

func TestAuthService_Logout_AlwaysSucceeds(t *testing.T) {
	fx := createTestAuthService(t)

	for _, token := range []string{"", "garbage"} {
		ok, err := fx.service.Logout(context.Background(), token)

		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	registered, err := fx.service.Register(ctx, aliceRegistration())
	require.NoError(t, err)

	user, err := fx.service.CurrentUser(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.FirstName)

	uow := fx.factory.New(ctx)
	_, err = uow.Users().Delete(ctx, registered.User.ID)
	require.NoError(t, err)
	require.NoError(t, uow.Close())

	_, err = fx.service.CurrentUser(ctx, registered.User.ID)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
	assert.Equal(t, domainerrors.CodeNotFound, domainerrors.KindOf(err))
}
