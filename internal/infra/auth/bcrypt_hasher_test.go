package auth

import (
	"strings"
	"testing"

	"taskhub/config"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *bcryptHasher {
	return NewBcryptHasherWithCost(bcrypt.MinCost).(*bcryptHasher)
}

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := newTestHasher()

	password := "Secret123!"
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	ok, err := hasher.Verify(password, hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBcryptHasher_SaltIsFreshPerCall(t *testing.T) {
	hasher := newTestHasher()

	first, err := hasher.Hash("Secret123!")
	require.NoError(t, err)
	second, err := hasher.Hash("Secret123!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_VerifyMismatch(t *testing.T) {
	hasher := newTestHasher()

	hash, err := hasher.Hash("Secret123!")
	require.NoError(t, err)

	for _, candidate := range []string{"Wrong123!", "", "secret123!"} {
		ok, err := hasher.Verify(candidate, hash)
		assert.NoError(t, err, candidate)
		assert.False(t, ok, candidate)
	}
}

func TestBcryptHasher_VerifyCorruptHash(t *testing.T) {
	hasher := newTestHasher()

	tests := []struct {
		name string
		hash string
	}{
		{name: "not a hash", hash: "invalid_hash"},
		{name: "empty", hash: ""},
		{name: "bad prefix", hash: "$9z$04$abcdefghijklmnopqrstuuSAv5K7dGx8wQd4A0TLBEXqHtxv7c7S"},
		{name: "bad cost", hash: "$2a$99$abcdefghijklmnopqrstuuSAv5K7dGx8wQd4A0TLBEXqHtxv7c7S"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := hasher.Verify("Secret123!", tt.hash)
			assert.False(t, ok)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrIntegrityCorruption))
		})
	}
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	hasher := newTestHasher()

	_, err := hasher.Hash(strings.Repeat("a", 73))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestBcryptHasher_CostFallback(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "below minimum", cost: 1, want: bcrypt.DefaultCost},
		{name: "above maximum", cost: 40, want: bcrypt.DefaultCost},
		{name: "in range", cost: 5, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher := NewBcryptHasherWithCost(tt.cost).(*bcryptHasher)
			assert.Equal(t, tt.want, hasher.cost)
		})
	}
}

func TestNewBcryptHasher_FromConfig(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 6}}

	hash, err := NewBcryptHasher(cfg).Hash("Secret123!")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 6, cost)
}
