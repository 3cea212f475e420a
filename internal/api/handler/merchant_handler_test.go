package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

type stubMerchantService struct {
	createFn     func(ctx context.Context, actor *domain.Claims, in ports.CreateMerchantInput) (*domain.Merchant, error)
	getFn        func(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	listFn       func(ctx context.Context, limit, offset int) ([]domain.Merchant, error)
	statusFn     func(ctx context.Context, actor *domain.Claims, id uuid.UUID, status domain.MerchantStatus) (*domain.Merchant, error)
	createSiteFn func(ctx context.Context, actor *domain.Claims, merchantID uuid.UUID, in ports.CreateSiteInput) (*ports.SiteRegistration, error)
}

func (s *stubMerchantService) Create(ctx context.Context, actor *domain.Claims, in ports.CreateMerchantInput) (*domain.Merchant, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubMerchantService) Get(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	return s.getFn(ctx, id)
}

func (s *stubMerchantService) List(ctx context.Context, limit, offset int) ([]domain.Merchant, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *stubMerchantService) ChangeStatus(ctx context.Context, actor *domain.Claims, id uuid.UUID, status domain.MerchantStatus) (*domain.Merchant, error) {
	return s.statusFn(ctx, actor, id, status)
}

func (s *stubMerchantService) CreateSite(ctx context.Context, actor *domain.Claims, merchantID uuid.UUID, in ports.CreateSiteInput) (*ports.SiteRegistration, error) {
	return s.createSiteFn(ctx, actor, merchantID, in)
}

func TestMerchantHandler_Create(t *testing.T) {
	stub := &stubMerchantService{
		createFn: func(ctx context.Context, actor *domain.Claims, in ports.CreateMerchantInput) (*domain.Merchant, error) {
			if in.Name == "Taken" {
				return nil, domain.ErrMerchantExists
			}
			return domain.NewMerchant(in.Name, in.Description), nil
		},
	}
	handler := NewMerchantHandler(stub)

	rec := serve(t, newEcho(), http.MethodPost, "/api/v1/merchant", strings.NewReader(`{"name":"Acme","description":"shop"}`), adminClaims(), handler.Create)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["status"] != "onboarding" || data["description"] != "shop" {
		t.Fatalf("unexpected data: %+v", data)
	}

	rec = serve(t, newEcho(), http.MethodPost, "/api/v1/merchant", strings.NewReader(`{"name":"Taken"}`), adminClaims(), handler.Create)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	rec = serve(t, newEcho(), http.MethodPost, "/api/v1/merchant", strings.NewReader(`{}`), adminClaims(), handler.Create)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMerchantHandler_ChangeStatus(t *testing.T) {
	id := uuid.New()
	stub := &stubMerchantService{
		statusFn: func(ctx context.Context, actor *domain.Claims, got uuid.UUID, status domain.MerchantStatus) (*domain.Merchant, error) {
			if status == domain.MerchantOnboarding {
				return nil, domain.ErrInvalidTransition
			}
			m := domain.NewMerchant("Acme", nil)
			m.ID, m.Status = got, status
			return m, nil
		},
	}
	handler := NewMerchantHandler(stub)

	cases := []struct {
		body string
		want int
	}{
		{`{"status":"active"}`, http.StatusOK},
		{`{"status":"onboarding"}`, http.StatusUnprocessableEntity},
		{`{"status":"paused"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := serve(t, newEcho(), http.MethodPatch, "/", strings.NewReader(tc.body), adminClaims(), handler.ChangeStatus, "id", id.String())
		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.body, tc.want, rec.Code)
		}
	}
}

func TestMerchantHandler_CreateSite_ReturnsSecretOnce(t *testing.T) {
	merchantID := uuid.New()
	stub := &stubMerchantService{
		createSiteFn: func(ctx context.Context, actor *domain.Claims, got uuid.UUID, in ports.CreateSiteInput) (*ports.SiteRegistration, error) {
			if got != merchantID || len(in.AllowedIPs) != 1 {
				t.Fatalf("unexpected input: %s %+v", got, in)
			}
			site := &domain.Site{ID: uuid.New(), MerchantID: got, Name: in.Name, Status: domain.SiteActive}
			site.Credentials = &domain.SiteCredentials{PublicKey: "pk_abc", SecretKey: "sk_xyz", IsActive: true}
			return &ports.SiteRegistration{Site: site, SecretKey: "sk_xyz"}, nil
		},
	}
	body := `{"name":"shop","url":"https://shop.test","callback_url":"https://shop.test/cb",` +
		`"redirect_success_url":"https://shop.test/ok","redirect_fail_url":"https://shop.test/ko","allowed_ips":["10.0.0.1"]}`

	rec := serve(t, newEcho(), http.MethodPost, "/", strings.NewReader(body), adminClaims(), NewMerchantHandler(stub).CreateSite, "id", merchantID.String())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["secret_key"] != "sk_xyz" {
		t.Fatalf("expected secret key in registration response, got %+v", data)
	}
	site, _ := data["site"].(map[string]any)
	creds, _ := site["credentials"].(map[string]any)
	if creds["public_key"] != "pk_abc" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
	if _, leaked := creds["secret_key"]; leaked {
		t.Fatalf("secret key must not be serialized with the site")
	}
}

func TestMerchantHandler_CreateSite_BadIP(t *testing.T) {
	stub := &stubMerchantService{}
	body := `{"name":"shop","url":"https://shop.test","callback_url":"https://shop.test/cb",` +
		`"redirect_success_url":"https://shop.test/ok","redirect_fail_url":"https://shop.test/ko","allowed_ips":["nope"]}`

	rec := serve(t, newEcho(), http.MethodPost, "/", strings.NewReader(body), adminClaims(), NewMerchantHandler(stub).CreateSite, "id", uuid.NewString())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMerchantHandler_Get_NotFound(t *testing.T) {
	stub := &stubMerchantService{
		getFn: func(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
			return nil, domain.ErrMerchantNotFound
		},
	}

	rec := serve(t, newEcho(), http.MethodGet, "/", nil, adminClaims(), NewMerchantHandler(stub).Get, "id", uuid.NewString())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
