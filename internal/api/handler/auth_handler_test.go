package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, login, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Login(ctx context.Context, login, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, login, password)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	user := domain.NewUser("alice", "alice@example.com", "hash", domain.NewRole(domain.RoleAdmin))
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, login, password string) (*ports.LoginResult, error) {
			if login != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", login, password)
			}
			return &ports.LoginResult{Token: "token123", ExpiresAt: time.Now().Add(time.Hour), User: user}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := serve(t, e, http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"login":"alice@example.com","password":"secret"}`), nil, handler.Login)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	if resp["message"] != "success" || resp["status"] != float64(http.StatusOK) {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok || data["token"] != "token123" {
		t.Fatalf("expected token in data, got %+v", resp["data"])
	}
	u, ok := data["user"].(map[string]any)
	if !ok || u["username"] != "alice" {
		t.Fatalf("unexpected user payload: %+v", data["user"])
	}
	if _, leaked := u["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"locked", domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{"unexpected", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		e := newEcho()
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, login, password string) (*ports.LoginResult, error) {
				return nil, tc.err
			},
		}
		rec := serve(t, e, http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"login":"alice","password":"bad"}`), nil, NewAuthHandler(stub).Login)

		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, rec.Code)
		}
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, login, password string) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	for _, body := range []string{"{", `{"login":"alice"}`, `{"password":"x"}`} {
		rec := serve(t, newEcho(), http.MethodPost, "/api/v1/auth/login", strings.NewReader(body), nil, handler.Login)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}
