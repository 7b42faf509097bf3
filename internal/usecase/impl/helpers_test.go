package impl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"taskhub/config"
	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"
	"taskhub/internal/domain/service"
	"taskhub/internal/infra/auth"
	logs "taskhub/internal/infra/log"
	"taskhub/internal/infra/metrics"
	"taskhub/internal/infra/persistence/gormrepo"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newBufferLogger writes JSON records at every level, critical included, into the returned buffer.
func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.LevelKey {
				if level, ok := attr.Value.Any().(slog.Level); ok && level >= logs.LevelCritical {
					attr.Value = slog.StringValue("CRITICAL")
				}
			}

			return attr
		},
	})

	return slog.New(handler), buf
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:     "test-secret-key-that-is-long-enough",
			Issuer:        "taskhub",
			Audience:      "taskhub-clients",
			ExpiryMinutes: 60,
		},
		Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}
}

// newUnitOfWorkFactory backs the services with a private in-memory SQLite database.
func newUnitOfWorkFactory(t *testing.T) repository.UnitOfWorkFactory {
	t.Helper()

	db, err := gormrepo.Open(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1",
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gormrepo.Migrate(context.Background(), db))

	return gormrepo.NewUnitOfWorkFactory(db)
}

func newTokenService(t *testing.T) service.TokenService {
	t.Helper()

	tokens, err := auth.NewJWTService(newTestConfig())
	require.NoError(t, err)

	return tokens
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

// seedUser stores a user directly, bypassing registration.
func seedUser(t *testing.T, factory repository.UnitOfWorkFactory, email, passwordHash string) *entity.User {
	t.Helper()

	uow := factory.New(context.Background())
	defer func() { _ = uow.Close() }()

	user := &entity.User{Email: email, FirstName: "Seed", LastName: "User", PasswordHash: passwordHash}
	require.NoError(t, uow.Users().Create(context.Background(), user))

	return user
}
