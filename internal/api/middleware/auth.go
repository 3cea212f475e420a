package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/backoffice-api/internal/api/metrics"
	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// HeaderJWTToken carries the signed identity token on every protected request.
const HeaderJWTToken = "X-JWT-Token"

// TokenDecoder verifies a raw token and returns its claims.
type TokenDecoder interface {
	Decode(token string) (*domain.Claims, error)
}

// Auth validates the X-JWT-Token header and attaches the claims to the request.
func Auth(tokens TokenDecoder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderJWTToken))
			if raw == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}

			claims, err := tokens.Decode(raw)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, domain.ErrTokenExpired) {
					reason = "expired"
				}
				metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			// Decoders are not trusted to have checked expiry.
			if claims.IsExpired() {
				metrics.AuthFailuresTotal.WithLabelValues("expired").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
			}

			setClaims(c, claims)
			return next(c)
		}
	}
}
