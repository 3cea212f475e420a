package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

const claimsContextKey = "claims"

func setClaims(c echo.Context, claims *domain.Claims) {
	c.Set(claimsContextKey, claims)
	req := c.Request()
	c.SetRequest(req.WithContext(domain.ContextWithClaims(req.Context(), claims)))
}

// ClaimsFrom returns the claims attached by Auth, if any.
func ClaimsFrom(c echo.Context) (*domain.Claims, bool) {
	if claims, ok := c.Get(claimsContextKey).(*domain.Claims); ok && claims != nil {
		return claims, true
	}
	return domain.ClaimsFromContext(c.Request().Context())
}
