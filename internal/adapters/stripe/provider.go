package stripe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	gostripe "github.com/stripe/stripe-go/v83"

	"conferenceregistration/internal/domain"
)

// checkoutSessionAPI is the subset of the Stripe client's checkout session service we call.
type checkoutSessionAPI interface {
	Create(ctx context.Context, params *gostripe.CheckoutSessionCreateParams) (*gostripe.CheckoutSession, error)
	Retrieve(ctx context.Context, id string, params *gostripe.CheckoutSessionRetrieveParams) (*gostripe.CheckoutSession, error)
}

// Config holds configuration for the Stripe payment provider.
type Config struct {
	SecretKey string
	Currency  string
}

// Provider implements domain.PaymentProvider with Stripe Checkout.
type Provider struct {
	sessions checkoutSessionAPI
	currency string
}

var _ domain.PaymentProvider = (*Provider)(nil)

// NewProvider creates a Stripe-backed payment provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	sc := gostripe.NewClient(cfg.SecretKey)
	return newProvider(sc.V1CheckoutSessions, cfg.Currency), nil
}

func newProvider(sessions checkoutSessionAPI, currency string) *Provider {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = string(gostripe.CurrencyUSD)
	}
	return &Provider{sessions: sessions, currency: currency}
}

// CreateCheckoutSession opens a hosted checkout for the quoted amount. The idempotency
// key makes a replayed request return the original session instead of a second charge.
func (p *Provider) CreateCheckoutSession(ctx context.Context, params *domain.CheckoutSessionParams) (*domain.CheckoutSession, error) {
	if params == nil || params.Quote == nil {
		return nil, &domain.ProviderError{Message: "checkout session requires a price quote"}
	}
	q := params.Quote
	sp := &gostripe.CheckoutSessionCreateParams{
		Mode:          gostripe.String(string(gostripe.CheckoutSessionModePayment)),
		CustomerEmail: gostripe.String(params.CustomerEmail),
		SuccessURL:    gostripe.String(params.SuccessURL),
		CancelURL:     gostripe.String(params.CancelURL),
		LineItems: []*gostripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &gostripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   gostripe.String(p.currency),
					UnitAmount: gostripe.Int64(q.UnitAmountMinorUnits),
					ProductData: &gostripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name:        gostripe.String(productName(q.TicketType)),
						Description: gostripe.String(q.Description),
					},
				},
				Quantity: gostripe.Int64(q.Quantity),
			},
		},
	}
	for k, v := range params.Metadata {
		sp.AddMetadata(k, v)
	}
	if params.IdempotencyKey != "" {
		sp.SetIdempotencyKey(params.IdempotencyKey)
	}

	sess, err := p.sessions.Create(ctx, sp)
	if err != nil {
		return nil, classifyError(err)
	}
	return &domain.CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}

// GetCheckoutSession retrieves a session to reconcile its payment state.
func (p *Provider) GetCheckoutSession(ctx context.Context, sessionID string) (*domain.CheckoutSessionStatus, error) {
	sess, err := p.sessions.Retrieve(ctx, sessionID, nil)
	if err != nil {
		var serr *gostripe.Error
		if errors.As(err, &serr) && serr.HTTPStatusCode == 404 {
			return nil, fmt.Errorf("%w: checkout session %s", domain.ErrNotFound, sessionID)
		}
		return nil, classifyError(err)
	}
	return sessionStatus(sess), nil
}

func sessionStatus(sess *gostripe.CheckoutSession) *domain.CheckoutSessionStatus {
	email := sess.CustomerEmail
	if email == "" && sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}
	return &domain.CheckoutSessionStatus{
		SessionID:     sess.ID,
		Paid:          settled(sess.PaymentStatus),
		CustomerEmail: domain.NormalizeEmail(email),
		Metadata:      sess.Metadata,
	}
}

// settled reports whether nothing is left to collect. A session fully covered by a
// coupon completes as no_payment_required.
func settled(status gostripe.CheckoutSessionPaymentStatus) bool {
	switch status {
	case gostripe.CheckoutSessionPaymentStatusPaid, gostripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return true
	}
	return false
}

func productName(t domain.TicketType) string {
	switch t {
	case domain.TicketStudent:
		return "Student Ticket"
	case domain.TicketProfessional:
		return "Professional Ticket"
	case domain.TicketStudentGroup:
		return "Student Group Ticket"
	}
	return "Conference Ticket"
}

// classifyError maps a Stripe client error onto the domain payment errors.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", domain.ErrPaymentUnavailable, err)
	}

	var serr *gostripe.Error
	if errors.As(err, &serr) {
		switch {
		case serr.Type == gostripe.ErrorTypeIdempotency,
			serr.Code == gostripe.ErrorCodeResourceAlreadyExists:
			return fmt.Errorf("%w: %s", domain.ErrPaymentConflict, serr.Msg)
		case serr.HTTPStatusCode >= 500:
			return fmt.Errorf("%w: %s", domain.ErrPaymentUnavailable, serr.Msg)
		}
		msg := serr.Msg
		if msg == "" {
			msg = string(serr.Type)
		}
		return &domain.ProviderError{Message: msg, Err: err}
	}

	var nerr net.Error
	var uerr *url.Error
	if errors.As(err, &nerr) || errors.As(err, &uerr) {
		return fmt.Errorf("%w: %v", domain.ErrPaymentUnavailable, err)
	}

	// Untyped errors from the client carry no code, only text.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "idempotency"), strings.Contains(msg, "already exists"):
		return fmt.Errorf("%w: %v", domain.ErrPaymentConflict, err)
	case strings.Contains(msg, "network"), strings.Contains(msg, "timeout"), strings.Contains(msg, "connection"):
		return fmt.Errorf("%w: %v", domain.ErrPaymentUnavailable, err)
	}
	return &domain.ProviderError{Message: err.Error(), Err: err}
}
