package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// toHTTPError maps known domain errors to their HTTP status. Unknown errors
// are returned untouched and end up as a logged 500.
func toHTTPError(err error) error {
	code, msg := 0, ""
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		code, msg = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		code, msg = http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrTooManyAttempts):
		code, msg = http.StatusTooManyRequests, "too many login attempts"
	case errors.Is(err, domain.ErrForbidden):
		code, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRoleNotFound),
		errors.Is(err, domain.ErrMerchantNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrMerchantExists),
		errors.Is(err, domain.ErrSiteExists):
		code, msg = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		code, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrValidation):
		code, msg = http.StatusBadRequest, err.Error()
	default:
		return err
	}
	return echo.NewHTTPError(code, msg).SetInternal(err)
}

func invalidPayload(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
}
