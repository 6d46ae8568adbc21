package stripe

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	gostripe "github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"

	"conferenceregistration/internal/domain"
)

// WebhookParser verifies Stripe webhook signatures and extracts completed checkouts.
type WebhookParser struct {
	secret string
}

// NewWebhookParser creates a parser for the endpoint signing secret.
func NewWebhookParser(secret string) *WebhookParser {
	return &WebhookParser{secret: secret}
}

// ParseCheckoutCompleted verifies payload against the Stripe-Signature header and,
// for checkout.session.completed and async_payment_succeeded events, rebuilds the
// finalize request from the session metadata. Any other verified event yields
// domain.ErrEventIgnored. A bad signature is wrapped in domain.ErrUnauthorized.
func (w *WebhookParser) ParseCheckoutCompleted(payload []byte, signature string) (*domain.FinalizeRequest, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, w.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	switch event.Type {
	case gostripe.EventTypeCheckoutSessionCompleted, gostripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrEventIgnored, event.Type)
	}
	if event.Data == nil {
		return nil, domain.NewValidationError("webhook event has no data")
	}

	var sess gostripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("decode checkout session: %v", err))
	}
	return finalizeRequestFromSession(&sess), nil
}

func finalizeRequestFromSession(sess *gostripe.CheckoutSession) *domain.FinalizeRequest {
	meta := sess.Metadata
	status := sessionStatus(sess)

	email := meta[domain.MetaEmail]
	if email == "" {
		email = status.CustomerEmail
	}
	groupSize, _ := strconv.Atoi(meta[domain.MetaGroupSize])

	var groupEmails []string
	if raw := meta[domain.MetaGroupEmails]; raw != "" {
		groupEmails = strings.Split(raw, ",")
	}

	return &domain.FinalizeRequest{
		RequestID:         meta[domain.MetaRequestID],
		FullName:          meta[domain.MetaFullName],
		Email:             email,
		Organization:      meta[domain.MetaOrganization],
		Role:              meta[domain.MetaRole],
		TicketType:        domain.TicketType(meta[domain.MetaTicketType]),
		GroupSize:         groupSize,
		GroupEmails:       groupEmails,
		SpecialRequests:   meta[domain.MetaSpecialRequests],
		ReferralSource:    meta[domain.MetaReferralSource],
		CouponCode:        meta[domain.MetaCouponCode],
		CheckoutSessionID: sess.ID,
		PaymentComplete:   status.Paid,

		PartialGroupEmails: meta[domain.MetaGroupEmailsTruncated] == "true",
	}
}
