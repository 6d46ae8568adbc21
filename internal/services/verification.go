package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"conferenceregistration/internal/domain"
)

// DefaultVerificationTTL is how long an email verification link stays valid.
const DefaultVerificationTTL = 72 * time.Hour

type verificationService struct {
	issuer        domain.TokenIssuer
	verifier      domain.TokenVerifier
	registrations domain.RegistrationRepository
	groups        domain.GroupRepository
	baseURL       string
	ttl           time.Duration
}

// NewVerificationService creates a VerificationService producing links of the form
// {baseURL}/verify-email?token=...
func NewVerificationService(
	issuer domain.TokenIssuer,
	verifier domain.TokenVerifier,
	registrations domain.RegistrationRepository,
	groups domain.GroupRepository,
	baseURL string,
	ttl time.Duration,
) domain.VerificationService {
	if ttl <= 0 {
		ttl = DefaultVerificationTTL
	}
	return &verificationService{
		issuer:        issuer,
		verifier:      verifier,
		registrations: registrations,
		groups:        groups,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		ttl:           ttl,
	}
}

func (s *verificationService) TTL() time.Duration {
	return s.ttl
}

func (s *verificationService) VerificationURL(email string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return "", domain.NewMissingFieldsError("email")
	}
	token, err := s.issuer.Issue(email, email, []string{domain.ScopeVerifyEmail}, s.ttl)
	if err != nil {
		return "", fmt.Errorf("issue verification token: %w", err)
	}
	return s.baseURL + "/verify-email?token=" + url.QueryEscape(token), nil
}

func (s *verificationService) VerifyEmail(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.NewMissingFieldsError("token")
	}
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !claims.HasScope(domain.ScopeVerifyEmail) || claims.Email == "" {
		return "", domain.ErrUnauthorized
	}
	email := domain.NormalizeEmail(claims.Email)

	regUpdated, err := s.registrations.MarkEmailVerified(ctx, email)
	if err != nil {
		return "", fmt.Errorf("mark registration verified: %w", err)
	}
	memberUpdated, err := s.groups.MarkMemberEmailVerified(ctx, email)
	if err != nil {
		return "", fmt.Errorf("mark group member verified: %w", err)
	}
	if !regUpdated && !memberUpdated {
		return "", fmt.Errorf("%w: no registration for %s", domain.ErrNotFound, email)
	}
	return email, nil
}
