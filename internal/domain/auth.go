package domain

import (
	"context"
	"time"
)

// Token scopes.
const (
	ScopeAdmin       = "admin"
	ScopeVerifyEmail = "verify_email"
)

// TokenClaims is the verified content of a signed token.
type TokenClaims struct {
	Subject string
	Email   string
	Scopes  []string
}

// HasScope reports whether the claims grant scope.
func (c *TokenClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// TokenIssuer issues signed tokens (e.g. JWT).
type TokenIssuer interface {
	Issue(subject, email string, scopes []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// VerificationService issues and redeems email verification links.
type VerificationService interface {
	VerificationURL(email string) (string, error)
	TTL() time.Duration
	// VerifyEmail validates token and marks every registration or group member with its email verified.
	VerifyEmail(ctx context.Context, token string) (email string, err error)
}

// AdminAuthService authenticates the site administrator.
type AdminAuthService interface {
	Login(ctx context.Context, email, password string) (token string, err error)
}
