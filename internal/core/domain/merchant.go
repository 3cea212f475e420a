package domain

import (
	"time"

	"github.com/google/uuid"
)

// MerchantStatus represents the lifecycle state of a merchant.
type MerchantStatus string

const (
	MerchantActive     MerchantStatus = "active"
	MerchantOnboarding MerchantStatus = "onboarding"
	MerchantInactive   MerchantStatus = "inactive"
)

// validTransitions defines the allowed merchant status changes.
var validTransitions = map[MerchantStatus][]MerchantStatus{
	MerchantOnboarding: {MerchantActive, MerchantInactive},
	MerchantActive:     {MerchantInactive},
	MerchantInactive:   {MerchantActive},
}

func (s MerchantStatus) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo reports whether a merchant may move from s to next.
func (s MerchantStatus) CanTransitionTo(next MerchantStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type SiteStatus string

const (
	SiteActive   SiteStatus = "active"
	SiteInactive SiteStatus = "inactive"
)

// Merchant is a business onboarded onto the platform.
type Merchant struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Status      MerchantStatus `json:"status"`
	Sites       []Site         `json:"sites,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func NewMerchant(name string, description *string) *Merchant {
	now := time.Now().UTC()
	return &Merchant{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Status:      MerchantOnboarding,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Site is a merchant storefront integrating with the platform.
type Site struct {
	ID                 uuid.UUID        `json:"id"`
	MerchantID         uuid.UUID        `json:"merchant_id"`
	Name               string           `json:"name"`
	URL                string           `json:"url"`
	CallbackURL        string           `json:"callback_url"`
	RedirectSuccessURL string           `json:"redirect_success_url"`
	RedirectFailURL    string           `json:"redirect_fail_url"`
	Status             SiteStatus       `json:"status"`
	Credentials        *SiteCredentials `json:"credentials,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// SiteCredentials are the API keys a site authenticates with.
// SecretKey is only serialized in the response that creates it.
type SiteCredentials struct {
	ID         uuid.UUID `json:"id"`
	SiteID     uuid.UUID `json:"site_id"`
	PublicKey  string    `json:"public_key"`
	SecretKey  string    `json:"-"`
	AllowedIPs []string  `json:"allowed_ips"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
