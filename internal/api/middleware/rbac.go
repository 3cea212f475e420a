package middleware

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/backoffice-api/internal/api/metrics"
	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// RequireRoles forwards only requests whose claims carry one of kinds.
// It panics when built with no kinds or an unknown kind so that wiring
// mistakes surface at startup.
func RequireRoles(kinds ...domain.RoleKind) echo.MiddlewareFunc {
	if len(kinds) == 0 {
		panic("middleware: RequireRoles needs at least one role")
	}
	allowed := make(map[uuid.UUID]struct{}, len(kinds))
	for _, k := range kinds {
		if !k.Valid() {
			panic(fmt.Sprintf("middleware: RequireRoles got unknown role kind %d", k))
		}
		allowed[k.ID()] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("no_claims").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[claims.RoleID]; !ok {
				metrics.AuthzDeniedTotal.WithLabelValues(claims.RoleName).Inc()
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}

// Secure returns Auth followed by RequireRoles. Routes should be protected
// through it so the gate never runs without claims.
func Secure(tokens TokenDecoder, kinds ...domain.RoleKind) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{Auth(tokens), RequireRoles(kinds...)}
}
