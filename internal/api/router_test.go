package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/api/middleware"
	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
	"github.com/99minutos/backoffice-api/internal/core/service"
)

type fakeUsers struct{ ports.UserService }

func (fakeUsers) Me(_ context.Context, actor *domain.Claims) (*domain.User, error) {
	u := domain.NewUser("me", "me@example.com", "hash", domain.Role{ID: actor.RoleID, Name: actor.RoleName})
	u.ID = actor.UserID
	return u, nil
}

func (fakeUsers) Delete(context.Context, *domain.Claims, uuid.UUID) error { return nil }

func (fakeUsers) List(context.Context, ports.ListUsersInput) (*ports.UserPage, error) {
	return &ports.UserPage{Users: []domain.User{}, Limit: ports.DefaultPageLimit}, nil
}

type fakeMerchants struct{ ports.MerchantService }

func (fakeMerchants) List(context.Context, int, int) ([]domain.Merchant, error) {
	return []domain.Merchant{}, nil
}

func (fakeMerchants) ChangeStatus(_ context.Context, _ *domain.Claims, id uuid.UUID, status domain.MerchantStatus) (*domain.Merchant, error) {
	m := domain.NewMerchant("Acme", nil)
	m.ID, m.Status = id, status
	return m, nil
}

type fakeRoles struct{ ports.RoleService }

func (fakeRoles) List(context.Context) ([]domain.Role, error) {
	return []domain.Role{domain.NewRole(domain.RoleAdmin)}, nil
}

type fakeAuth struct{}

func (fakeAuth) Login(context.Context, string, string) (*ports.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func newTestRouter(t *testing.T) (*echo.Echo, *service.TokenService) {
	t.Helper()
	tokens, err := service.NewTokenService("secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	reg := prometheus.NewRegistry()
	e := NewRouter(Dependencies{
		Log:        zerolog.Nop(),
		Tokens:     tokens,
		Auth:       fakeAuth{},
		Users:      fakeUsers{},
		Roles:      fakeRoles{},
		Merchants:  fakeMerchants{},
		Version:    "test",
		LoginRate:  100,
		Registerer: reg,
		Gatherer:   reg,
	})
	return e, tokens
}

func tokenFor(t *testing.T, tokens *service.TokenService, kind domain.RoleKind) string {
	t.Helper()
	token, err := tokens.Issue(uuid.New(), kind.ID(), kind.String(), time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, e *echo.Echo, method, path, token, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(middleware.HeaderJWTToken, token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec.Code, env
}

func TestRouter_AuthenticationFailures(t *testing.T) {
	e, tokens := newTestRouter(t)
	expired, _ := tokens.Issue(uuid.New(), domain.AdminRoleID, "Admin", -time.Hour)

	cases := []struct {
		name, token, message string
	}{
		{"missing", "", "missing token"},
		{"garbage", "garbage", "invalid or expired token"},
		{"expired", expired, "invalid or expired token"},
	}
	for _, tc := range cases {
		code, env := do(t, e, http.MethodGet, "/api/v1/user/me", tc.token, "")
		if code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", tc.name, code)
		}
		if env.Status != http.StatusUnauthorized || env.Message != tc.message {
			t.Fatalf("%s: unexpected envelope %+v", tc.name, env)
		}
	}
}

func TestRouter_RoleGating(t *testing.T) {
	e, tokens := newTestRouter(t)
	id := uuid.NewString()

	cases := []struct {
		name         string
		method, path string
		body         string
		role         domain.RoleKind
		want         int
	}{
		{"support reads self", http.MethodGet, "/api/v1/user/me", "", domain.RoleSupport, http.StatusOK},
		{"user lists users", http.MethodGet, "/api/v1/user", "", domain.RoleUser, http.StatusOK},
		{"user lists roles", http.MethodGet, "/api/v1/roles", "", domain.RoleUser, http.StatusOK},
		{"support cannot create user", http.MethodPost, "/api/v1/user", `{}`, domain.RoleSupport, http.StatusForbidden},
		{"finance cannot delete user", http.MethodDelete, "/api/v1/user/" + id, "", domain.RoleFinance, http.StatusForbidden},
		{"admin deletes user", http.MethodDelete, "/api/v1/user/" + id, "", domain.RoleAdmin, http.StatusOK},
		{"finance lists merchants", http.MethodGet, "/api/v1/merchant", "", domain.RoleFinance, http.StatusOK},
		{"user cannot list merchants", http.MethodGet, "/api/v1/merchant", "", domain.RoleUser, http.StatusForbidden},
		{"risk changes merchant status", http.MethodPatch, "/api/v1/merchant/" + id + "/status", `{"status":"active"}`, domain.RoleRisk, http.StatusOK},
		{"support cannot change merchant status", http.MethodPatch, "/api/v1/merchant/" + id + "/status", `{"status":"active"}`, domain.RoleSupport, http.StatusForbidden},
	}
	for _, tc := range cases {
		code, env := do(t, e, tc.method, tc.path, tokenFor(t, tokens, tc.role), tc.body)
		if code != tc.want {
			t.Fatalf("%s: expected %d, got %d (%+v)", tc.name, tc.want, code, env)
		}
		if code == http.StatusForbidden && env.Message != "insufficient permissions" {
			t.Fatalf("%s: unexpected message %q", tc.name, env.Message)
		}
		if code == http.StatusOK && env.Message != "success" {
			t.Fatalf("%s: unexpected message %q", tc.name, env.Message)
		}
	}
}

func TestRouter_LoginIsPublic(t *testing.T) {
	e, _ := newTestRouter(t)

	code, env := do(t, e, http.MethodPost, "/api/v1/auth/login", "", `{"login":"alice","password":"bad"}`)
	if code != http.StatusUnauthorized || env.Message != "invalid credentials" {
		t.Fatalf("unexpected response %d %+v", code, env)
	}
}

func TestRouter_NotFoundUsesEnvelope(t *testing.T) {
	e, _ := newTestRouter(t)

	code, env := do(t, e, http.MethodGet, "/nope", "", "")
	if code != http.StatusNotFound || env.Status != http.StatusNotFound || env.Message == "" {
		t.Fatalf("unexpected response %d %+v", code, env)
	}
}

func TestRouter_Health(t *testing.T) {
	e, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"version":"test"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_LoginRateLimited(t *testing.T) {
	tokens, _ := service.NewTokenService("secret", time.Hour)
	reg := prometheus.NewRegistry()
	e := NewRouter(Dependencies{
		Log: zerolog.Nop(), Tokens: tokens, Auth: fakeAuth{}, Users: fakeUsers{},
		Roles: fakeRoles{}, Merchants: fakeMerchants{}, LoginRate: 1,
		Registerer: reg, Gatherer: reg,
	})

	limited := false
	for i := 0; i < 5; i++ {
		code, _ := do(t, e, http.MethodPost, "/api/v1/auth/login", "", `{"login":"alice","password":"bad"}`)
		if code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatalf("expected login to be rate limited")
	}
}
