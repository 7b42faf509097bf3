package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "taskhub/internal/domain/errors"
	mockSvc "taskhub/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_Authenticate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		setup  func(m *mockSvc.MockTokenService)
	}{
		{name: "missing header"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "empty bearer", header: "Bearer   "},
		{
			name:   "invalid token",
			header: "Bearer forged",
			setup: func(m *mockSvc.MockTokenService) {
				m.EXPECT().Validate("forged").Return(false).Once()
			},
		},
		{
			name:   "subject is not a uuid",
			header: "Bearer odd-subject",
			setup: func(m *mockSvc.MockTokenService) {
				m.EXPECT().Validate("odd-subject").Return(true).Once()
				m.EXPECT().SubjectOf("odd-subject").Return(uuid.Nil, false).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mockSvc.NewMockTokenService(t)
			if tt.setup != nil {
				tt.setup(tokens)
			}

			c, _ := newAuthContext(tt.header)
			called := false
			next := func(echo.Context) error {
				called = true

				return nil
			}

			err := NewAuthMiddleware(tokens).Authenticate(next)(c)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))
			assert.False(t, called)
			_, ok := GetUserID(c)
			assert.False(t, ok)
		})
	}
}

func TestAuthMiddleware_Authenticate_StoresCaller(t *testing.T) {
	userID := uuid.New()
	tokens := mockSvc.NewMockTokenService(t)
	tokens.EXPECT().Validate("good").Return(true).Once()
	tokens.EXPECT().SubjectOf("good").Return(userID, true).Once()

	c, _ := newAuthContext("Bearer good")

	var seen uuid.UUID
	err := NewAuthMiddleware(tokens).Authenticate(func(c echo.Context) error {
		id, ok := GetUserID(c)
		require.True(t, ok)
		seen = id

		return nil
	})(c)

	require.NoError(t, err)
	assert.Equal(t, userID, seen)
}
