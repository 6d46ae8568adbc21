package domain

import (
	"context"
	"time"
)

// CheckoutRequest is a request to start a paid checkout for a ticket.
type CheckoutRequest struct {
	RequestID       string
	RetryCount      int
	TicketType      TicketType
	Email           string
	FullName        string
	GroupSize       int
	Organization    string
	Role            string
	SpecialRequests string
	ReferralSource  string
	GroupEmails     []string
	CouponCode      string
	SuccessURL      string
	CancelURL       string
}

// CheckoutSessionParams is what the payment provider needs to open a hosted checkout.
type CheckoutSessionParams struct {
	IdempotencyKey string
	Quote          *PriceQuote
	CustomerEmail  string
	SuccessURL     string
	CancelURL      string
	Metadata       map[string]string
}

// CheckoutSession is a provider checkout session the browser is redirected to.
// swagger:model CheckoutSession
type CheckoutSession struct {
	SessionID      string        `json:"sessionId"`
	URL            string        `json:"url"`
	RequestID      string        `json:"requestId"`
	ProcessingTime time.Duration `json:"-"`
}

// CheckoutSessionStatus is the reconciliation view of a provider session.
type CheckoutSessionStatus struct {
	SessionID     string
	Paid          bool
	CustomerEmail string
	Metadata      map[string]string
}

// PaymentProvider wraps the third-party payment provider.
// Implementations return ErrPaymentConflict for idempotency or duplicate-resource
// failures, ErrPaymentUnavailable for connectivity failures and *ProviderError otherwise.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSessionStatus, error)
}

// CheckoutSessionCache remembers created sessions by idempotency key so a replayed
// request is answered without calling the provider again. Get returns ErrNotFound on a miss.
type CheckoutSessionCache interface {
	Get(ctx context.Context, key string) (*CheckoutSession, error)
	Set(ctx context.Context, key string, session *CheckoutSession, ttl time.Duration) error
}

// CheckoutService creates checkout sessions for ticket purchases.
type CheckoutService interface {
	CreateSession(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error)
	// SessionStatus looks up a provider session for reconciliation.
	SessionStatus(ctx context.Context, sessionID string) (*CheckoutSessionStatus, error)
}

// Metadata keys attached to a checkout session and read back when it completes.
const (
	MetaRequestID       = "request_id"
	MetaEmail           = "email"
	MetaFullName        = "full_name"
	MetaTicketType      = "ticket_type"
	MetaGroupSize       = "group_size"
	MetaOrganization    = "organization"
	MetaRole            = "role"
	MetaCouponCode      = "coupon_code"
	MetaReferralSource  = "referral_source"
	MetaSpecialRequests = "special_requests"
	MetaGroupEmails     = "group_emails"
	// MetaGroupEmailsTruncated is "true" when group_emails had to be cut to fit the provider limit.
	MetaGroupEmailsTruncated = "group_emails_truncated"
)
