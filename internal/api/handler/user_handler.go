package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/backoffice-api/internal/api/metrics"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create registers a new backoffice user. Admin only.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        X-JWT-Token  header    string             true  "Signed token"
// @Param        body         body      createUserRequest  true  "User details"
// @Success      201          {object}  Response{data=domain.User}
// @Failure      400          {object}  Response
// @Failure      404          {object}  Response
// @Failure      409          {object}  Response
// @Router       /api/v1/user [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Create(c.Request().Context(), actor, ports.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   uuid.MustParse(req.RoleID),
	})
	if err != nil {
		return toHTTPError(err)
	}

	metrics.UserMutationsTotal.WithLabelValues("create").Inc()
	return respond(c, http.StatusCreated, user)
}

// List returns a page of users, or the matches of ?search.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        X-JWT-Token  header    string  true   "Signed token"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Param        offset       query     int     false  "Page offset"
// @Param        search       query     string  false  "Username or email fragment"
// @Success      200          {object}  Response{data=userPageResponse}
// @Router       /api/v1/user [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := c.Bind(&q); err != nil {
		return invalidPayload(err)
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	page, err := h.users.List(c.Request().Context(), ports.ListUsersInput{
		Limit:  q.Limit,
		Offset: q.Offset,
		Search: q.Search,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return respond(c, http.StatusOK, userPageResponse{
		Users:  page.Users,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// Get returns a single user by id.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        X-JWT-Token  header    string  true  "Signed token"
// @Param        id           path      string  true  "User id"
// @Success      200          {object}  Response{data=domain.User}
// @Failure      404          {object}  Response
// @Router       /api/v1/user/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusOK, user)
}

// Me returns the caller's own account.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Param        X-JWT-Token  header    string  true  "Signed token"
// @Success      200          {object}  Response{data=domain.User}
// @Router       /api/v1/user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := claimsFrom(c)
	if err != nil {
		return err
	}

	user, err := h.users.Me(c.Request().Context(), actor)
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusOK, user)
}

// Update applies a partial update to a user. Admin only.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        X-JWT-Token  header    string             true  "Signed token"
// @Param        id           path      string             true  "User id"
// @Param        body         body      updateUserRequest  true  "Fields to change"
// @Success      200          {object}  Response{data=domain.User}
// @Failure      404          {object}  Response
// @Failure      409          {object}  Response
// @Router       /api/v1/user/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := ports.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		IsActive: req.IsActive,
	}
	if req.RoleID != nil {
		roleID := uuid.MustParse(*req.RoleID)
		in.RoleID = &roleID
	}

	user, err := h.users.Update(c.Request().Context(), actor, id, in)
	if err != nil {
		return toHTTPError(err)
	}

	metrics.UserMutationsTotal.WithLabelValues("update").Inc()
	return respond(c, http.StatusOK, user)
}

// Delete removes a user. Admin only.
//
// @Summary      Delete user
// @Tags         users
// @Param        X-JWT-Token  header    string  true  "Signed token"
// @Param        id           path      string  true  "User id"
// @Success      200          {object}  Response
// @Failure      404          {object}  Response
// @Router       /api/v1/user/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), actor, id); err != nil {
		return toHTTPError(err)
	}

	metrics.UserMutationsTotal.WithLabelValues("delete").Inc()
	return respond(c, http.StatusOK, nil)
}
