package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"conferenceregistration/internal/domain"
)

// DefaultAdminTokenTTL is the lifetime of an admin bearer token.
const DefaultAdminTokenTTL = 12 * time.Hour

type adminAuthService struct {
	email        string
	passwordHash string
	hasher       domain.PasswordHasher
	issuer       domain.TokenIssuer
	ttl          time.Duration
}

// NewAdminAuthService creates an AdminAuthService for the single configured administrator.
// An empty passwordHash disables login.
func NewAdminAuthService(email, passwordHash string, hasher domain.PasswordHasher, issuer domain.TokenIssuer, ttl time.Duration) domain.AdminAuthService {
	if ttl <= 0 {
		ttl = DefaultAdminTokenTTL
	}
	return &adminAuthService{
		email:        domain.NormalizeEmail(email),
		passwordHash: passwordHash,
		hasher:       hasher,
		issuer:       issuer,
		ttl:          ttl,
	}
}

func (s *adminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", domain.NewMissingFieldsError("email", "password")
	}
	if s.passwordHash == "" || s.email == "" {
		return "", domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) != 1 {
		return "", domain.ErrUnauthorized
	}
	if err := s.hasher.Compare(s.passwordHash, password); err != nil {
		return "", domain.ErrUnauthorized
	}
	token, err := s.issuer.Issue("admin", email, []string{domain.ScopeAdmin}, s.ttl)
	if err != nil {
		return "", fmt.Errorf("issue admin token: %w", err)
	}
	return token, nil
}
