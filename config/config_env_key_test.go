package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"database": map[string]any{
			"sslMode":      "disable",
			"maxOpenConns": 10,
			"userName":     "user",
		},
		"jwt": map[string]any{
			"secretKey":     "",
			"expiryMinutes": 60,
		},
		"http": map[string]any{
			"maxRequestBodySize": "100KB",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "DATABASE_SSLMODE", want: "database.sslMode"},
		{envKey: "DATABASE_USERNAME", want: "database.userName"},
		{envKey: "DATABASE_MAXOPENCONNS", want: "database.maxOpenConns"},
		{envKey: "JWT_SECRETKEY", want: "jwt.secretKey"},
		{envKey: "JWT_EXPIRYMINUTES", want: "jwt.expiryMinutes"},
		{envKey: "HTTP_MAXREQUESTBODYSIZE", want: "http.maxRequestBodySize"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalizeEnvKey(tt.envKey, existing))
		})
	}
}

func TestJWTConfig_Validate(t *testing.T) {
	valid := JWTConfig{SecretKey: "secret", Issuer: "taskhub", Audience: "taskhub-clients"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*JWTConfig)
	}{
		{name: "missing secret", mutate: func(c *JWTConfig) { c.SecretKey = "" }},
		{name: "blank issuer", mutate: func(c *JWTConfig) { c.Issuer = "   " }},
		{name: "missing audience", mutate: func(c *JWTConfig) { c.Audience = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestJWTConfig_TTL(t *testing.T) {
	assert.Equal(t, 60*time.Minute, JWTConfig{}.TTL())
	assert.Equal(t, 15*time.Minute, JWTConfig{ExpiryMinutes: 15}.TTL())
}

func TestLoadWithEnv_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
env:
  env: test
jwt:
  secretKey: from-file
  issuer: taskhub
  audience: taskhub-clients
  expiryMinutes: 30
database:
  driver: sqlite
  dsn: "file::memory:"
  connMaxLifetime: 5m
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, dir)
	require.NoError(t, err)

	t.Setenv("JWT_SECRETKEY", "from-env")

	cfg, err := LoadWithEnv[Config]("config", rel)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.SecretKey)
	assert.Equal(t, "taskhub", cfg.JWT.Issuer)
	assert.Equal(t, 30, cfg.JWT.ExpiryMinutes)
	require.NotNil(t, cfg.Database)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	_, err := LoadWithEnv[Config]("does-not-exist", t.TempDir())
	assert.Error(t, err)
}

func TestDatabaseConfig_PostgresDSN(t *testing.T) {
	db := &DatabaseConfig{Host: "db", Port: "5432", UserName: "app", Password: "p@ss", DBName: "taskhub"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/taskhub?sslmode=disable", db.PostgresDSN())

	db.DSN = "postgres://override"
	assert.Equal(t, "postgres://override", db.PostgresDSN())

	replica := db.ReplicaDSN(ConnectionConfig{Host: "replica", Port: "5433", UserName: "ro", Password: "x"})
	assert.Equal(t, "postgres://ro:x@replica:5433/taskhub?sslmode=disable", replica)
}

func TestBuildReplicasFromEnv(t *testing.T) {
	t.Setenv("DATABASE_REPLICAS_0_HOST", "r0")
	t.Setenv("DATABASE_REPLICAS_0_PORT", "5432")
	t.Setenv("DATABASE_REPLICAS_0_USERNAME", "ro")
	t.Setenv("DATABASE_REPLICAS_1_HOST", "r1")

	replicas := buildReplicasFromEnv()
	require.Len(t, replicas, 1)
	assert.Equal(t, "r0", replicas[0].Host)
	assert.Equal(t, "ro", replicas[0].UserName)
}
