package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/backoffice-api/internal/core/ports"
)

type RoleHandler struct {
	roles ports.RoleService
}

func NewRoleHandler(roles ports.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// List returns every role record.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Param        X-JWT-Token  header    string  true  "Signed token"
// @Success      200          {object}  Response{data=[]domain.Role}
// @Router       /api/v1/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.roles.List(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusOK, roles)
}
