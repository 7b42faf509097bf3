package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "taskhub/internal/delivery/context"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const bearerPrefix = "Bearer "

// AuthMiddleware provides middleware for JWT authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate admits requests carrying a valid bearer access token and records the caller.
// The token is validated before its subject is read; SubjectOf alone proves nothing.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.ErrUnauthorized.WithDetails("authorization header is missing")
		}

		tokenString, ok := strings.CutPrefix(authHeader, bearerPrefix)
		tokenString = strings.TrimSpace(tokenString)
		if !ok || tokenString == "" {
			return domainerrors.ErrUnauthorized.WithDetails("invalid token format, must be Bearer token")
		}

		if !m.tokenSvc.Validate(tokenString) {
			return errors.WithStack(domainerrors.ErrUnauthorized)
		}

		userID, ok := m.tokenSvc.SubjectOf(tokenString)
		if !ok {
			return domainerrors.ErrUnauthorized.WithDetails("token subject is not a user id")
		}

		deliverycontext.SetUserID(c, userID)

		req := c.Request()
		ctx := req.Context()
		if logger := deliverycontext.GetLogger(ctx); logger != nil {
			ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("user_id", userID.String())))
			c.SetRequest(req.WithContext(ctx))
		}

		return next(c)
	}
}

// GetUserID returns the caller recorded by Authenticate.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	return deliverycontext.GetUserID(c)
}
