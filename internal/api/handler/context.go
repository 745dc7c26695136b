package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/companyhub/companies-api/internal/api/middleware"
	"github.com/companyhub/companies-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fails fast with 401 before any service call when it is absent. Presence of
// a user ID proves the middleware ran and accepted the token.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, _ := c.Get(middleware.IdentityKey).(*domain.Identity)
	if identity == nil || identity.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
