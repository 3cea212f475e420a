package domain

import "errors"

// Token errors. ErrTokenExpired is only returned for tokens whose signature
// and structure verified.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleDrift         = errors.New("role table does not match known roles")
	ErrMerchantNotFound  = errors.New("merchant not found")
	ErrMerchantExists    = errors.New("merchant already exists")
	ErrSiteExists        = errors.New("site already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
)
