package handler

import (
	"time"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// --- Auth ---

type loginRequest struct {
	Login    string `json:"login"    validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// --- Users ---

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	RoleID   string `json:"role_id"  validate:"required,uuid"`
}

type updateUserRequest struct {
	Username *string `json:"username,omitempty"  validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty"     validate:"omitempty,email,max=255"`
	RoleID   *string `json:"role_id,omitempty"   validate:"omitempty,uuid"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type pageQuery struct {
	Limit  int `query:"limit"  validate:"gte=0"`
	Offset int `query:"offset" validate:"gte=0"`
}

type listUsersQuery struct {
	Limit  int    `query:"limit"  validate:"gte=0"`
	Offset int    `query:"offset" validate:"gte=0"`
	Search string `query:"search" validate:"max=100"`
}

type userPageResponse struct {
	Users  []domain.User `json:"users"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// --- Merchants ---

type createMerchantRequest struct {
	Name        string  `json:"name"                  validate:"required,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

type changeMerchantStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active onboarding inactive"`
}

type createSiteRequest struct {
	Name               string   `json:"name"                 validate:"required,max=255"`
	URL                string   `json:"url"                  validate:"required,url"`
	CallbackURL        string   `json:"callback_url"         validate:"required,url"`
	RedirectSuccessURL string   `json:"redirect_success_url" validate:"required,url"`
	RedirectFailURL    string   `json:"redirect_fail_url"    validate:"required,url"`
	AllowedIPs         []string `json:"allowed_ips"          validate:"omitempty,dive,ip"`
}

type siteRegistrationResponse struct {
	Site      *domain.Site `json:"site"`
	SecretKey string       `json:"secret_key"`
}
