package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// DefaultTokenTTL is used when no positive lifetime is configured.
const DefaultTokenTTL = 24 * time.Hour

var ErrEmptySecret = errors.New("token service: signing secret is empty")

// tokenClaims is the wire payload: {sub, user_id, role_id, role_name, iat, exp}.
type tokenClaims struct {
	UserID   string `json:"user_id"`
	RoleID   string `json:"role_id"`
	RoleName string `json:"role_name"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens. It holds no mutable state
// after construction and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the given identity. A ttl <= 0 yields a token that
// is already expired.
func (s *TokenService) Issue(userID, roleID uuid.UUID, roleName string, ttl time.Duration) (string, error) {
	token, _, err := s.issue(userID, roleID, roleName, ttl)
	return token, err
}

// IssueFor signs a token for user with the configured default lifetime.
func (s *TokenService) IssueFor(user *domain.User) (string, time.Time, error) {
	return s.issue(user.ID, user.Role.ID, user.Role.Name, s.ttl)
}

func (s *TokenService) issue(userID, roleID uuid.UUID, roleName string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := jwt.NewNumericDate(now.Add(ttl))

	claims := tokenClaims{
		UserID:   userID.String(),
		RoleID:   roleID.String(),
		RoleName: roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: expiresAt,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt.Time, nil
}

// Decode verifies the token structure, algorithm and signature, then checks
// expiry as a separate step. It returns domain.ErrInvalidToken for anything
// that fails verification and domain.ErrTokenExpired for a stale token.
func (s *TokenService) Decode(token string) (*domain.Claims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, err := tc.toDomain()
	if err != nil {
		return nil, err
	}

	if claims.IsExpiredAt(s.now()) {
		return nil, domain.ErrTokenExpired
	}
	return claims, nil
}

// Validate reports whether token decodes cleanly.
func (s *TokenService) Validate(token string) bool {
	_, err := s.Decode(token)
	return err == nil
}

func (s *TokenService) keyFunc(token *jwt.Token) (any, error) {
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return s.secret, nil
}

func (tc *tokenClaims) toDomain() (*domain.Claims, error) {
	if tc.IssuedAt == nil || tc.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing iat or exp", domain.ErrInvalidToken)
	}

	userID, err := uuid.Parse(tc.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", domain.ErrInvalidToken)
	}
	if tc.UserID != "" && tc.UserID != tc.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", domain.ErrInvalidToken)
	}

	roleID, err := uuid.Parse(tc.RoleID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad role_id", domain.ErrInvalidToken)
	}

	return &domain.Claims{
		UserID:    userID,
		RoleID:    roleID,
		RoleName:  tc.RoleName,
		IssuedAt:  tc.IssuedAt.Time,
		ExpiresAt: tc.ExpiresAt.Time,
	}, nil
}
