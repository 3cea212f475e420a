package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/backoffice-api/internal/api/metrics"
	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

type MerchantHandler struct {
	merchants ports.MerchantService
}

func NewMerchantHandler(merchants ports.MerchantService) *MerchantHandler {
	return &MerchantHandler{merchants: merchants}
}

// Create onboards a new merchant.
//
// @Summary      Create merchant
// @Tags         merchants
// @Accept       json
// @Produce      json
// @Param        X-JWT-Token  header    string                 true  "Signed token"
// @Param        body         body      createMerchantRequest  true  "Merchant details"
// @Success      201          {object}  Response{data=domain.Merchant}
// @Failure      409          {object}  Response
// @Router       /api/v1/merchant [post]
func (h *MerchantHandler) Create(c echo.Context) error {
	actor, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var req createMerchantRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := h.merchants.Create(c.Request().Context(), actor, ports.CreateMerchantInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return toHTTPError(err)
	}

	metrics.MerchantMutationsTotal.WithLabelValues("create").Inc()
	return respond(c, http.StatusCreated, m)
}

// List returns a page of merchants.
//
// @Summary      List merchants
// @Tags         merchants
// @Produce      json
// @Param        X-JWT-Token  header    string  true   "Signed token"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Param        offset       query     int     false  "Page offset"
// @Success      200          {object}  Response{data=[]domain.Merchant}
// @Router       /api/v1/merchant [get]
func (h *MerchantHandler) List(c echo.Context) error {
	var q pageQuery
	if err := c.Bind(&q); err != nil {
		return invalidPayload(err)
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	merchants, err := h.merchants.List(c.Request().Context(), q.Limit, q.Offset)
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusOK, merchants)
}

// Get returns a merchant with its sites.
//
// @Summary      Get merchant
// @Tags         merchants
// @Produce      json
// @Param        X-JWT-Token  header    string  true  "Signed token"
// @Param        id           path      string  true  "Merchant id"
// @Success      200          {object}  Response{data=domain.Merchant}
// @Failure      404          {object}  Response
// @Router       /api/v1/merchant/{id} [get]
func (h *MerchantHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	m, err := h.merchants.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusOK, m)
}

// ChangeStatus moves a merchant through its lifecycle.
//
// @Summary      Change merchant status
// @Tags         merchants
// @Accept       json
// @Produce      json
// @Param        X-JWT-Token  header    string                       true  "Signed token"
// @Param        id           path      string                       true  "Merchant id"
// @Param        body         body      changeMerchantStatusRequest  true  "New status"
// @Success      200          {object}  Response{data=domain.Merchant}
// @Failure      422          {object}  Response
// @Router       /api/v1/merchant/{id}/status [patch]
func (h *MerchantHandler) ChangeStatus(c echo.Context) error {
	actor, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req changeMerchantStatusRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := h.merchants.ChangeStatus(c.Request().Context(), actor, id, domain.MerchantStatus(req.Status))
	if err != nil {
		return toHTTPError(err)
	}

	metrics.MerchantMutationsTotal.WithLabelValues("status").Inc()
	return respond(c, http.StatusOK, m)
}

// CreateSite registers a site and returns its credentials. The secret key is
// only ever returned here.
//
// @Summary      Create site
// @Tags         merchants
// @Accept       json
// @Produce      json
// @Param        X-JWT-Token  header    string             true  "Signed token"
// @Param        id           path      string             true  "Merchant id"
// @Param        body         body      createSiteRequest  true  "Site details"
// @Success      201          {object}  Response{data=siteRegistrationResponse}
// @Failure      404          {object}  Response
// @Failure      409          {object}  Response
// @Router       /api/v1/merchant/{id}/site [post]
func (h *MerchantHandler) CreateSite(c echo.Context) error {
	actor, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req createSiteRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reg, err := h.merchants.CreateSite(c.Request().Context(), actor, id, ports.CreateSiteInput{
		Name:               req.Name,
		URL:                req.URL,
		CallbackURL:        req.CallbackURL,
		RedirectSuccessURL: req.RedirectSuccessURL,
		RedirectFailURL:    req.RedirectFailURL,
		AllowedIPs:         req.AllowedIPs,
	})
	if err != nil {
		return toHTTPError(err)
	}

	metrics.MerchantMutationsTotal.WithLabelValues("site").Inc()
	return respond(c, http.StatusCreated, siteRegistrationResponse{Site: reg.Site, SecretKey: reg.SecretKey})
}
