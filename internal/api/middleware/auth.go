package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/companyhub/companies-api/internal/core/domain"
)

// Context keys populated by Auth.
const (
	IdentityKey = "identity"
	UserIDKey   = "user_id"
	UsernameKey = "username"
)

// Authenticator verifies a bearer token and resolves the caller identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

// Auth validates the bearer token and injects the caller identity into context.
// Requests without a verified identity are rejected with 401 before reaching
// the handler.
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			identity, err := auth.Authenticate(c.Request().Context(), parts[1])
			switch {
			case errors.Is(err, domain.ErrTokenRevoked):
				return echo.NewHTTPError(http.StatusUnauthorized, "token has been revoked")
			case errors.Is(err, domain.ErrInvalidToken):
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			case err != nil:
				return err
			}

			c.Set(IdentityKey, identity)
			c.Set(UserIDKey, identity.UserID)
			c.Set(UsernameKey, identity.Username)

			return next(c)
		}
	}
}
