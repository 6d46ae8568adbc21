package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"conferenceregistration/internal/domain"
	"conferenceregistration/internal/monitoring"
)

// DefaultCheckoutTimeout stays below the 30s request deadline of the hosting platform.
const DefaultCheckoutTimeout = 25 * time.Second

// SessionCacheTTL matches the lifetime of provider idempotency keys.
const SessionCacheTTL = 24 * time.Hour

// Provider metadata values are capped at 500 characters.
const maxMetadataValueLen = 500

type checkoutService struct {
	provider domain.PaymentProvider
	coupons  domain.CouponService
	cache    domain.CheckoutSessionCache
	timeout  time.Duration
	logger   *slog.Logger
}

// CheckoutDeps are the collaborators of the checkout service. Coupons and Cache are
// optional: without Coupons, codes are passed through as metadata without affecting
// the price; without Cache, replays rely on the provider's idempotency handling alone.
type CheckoutDeps struct {
	Provider domain.PaymentProvider
	Coupons  domain.CouponService
	Cache    domain.CheckoutSessionCache
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewCheckoutService creates a CheckoutService.
func NewCheckoutService(deps CheckoutDeps) domain.CheckoutService {
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = DefaultCheckoutTimeout
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &checkoutService{
		provider: deps.Provider,
		coupons:  deps.Coupons,
		cache:    deps.Cache,
		timeout:  timeout,
		logger:   logger,
	}
}

// IdempotencyKey derives the provider idempotency key for one logical checkout attempt.
// A different retryCount yields a different key so a client can deliberately retry.
func IdempotencyKey(requestID, email string, ticketType domain.TicketType, retryCount int) string {
	raw := strings.Join([]string{requestID, domain.NormalizeEmail(email), string(ticketType), strconv.Itoa(retryCount)}, "|")
	sum := sha256.Sum256([]byte(raw))
	return "checkout_" + hex.EncodeToString(sum[:])
}

func (s *checkoutService) CreateSession(ctx context.Context, req *domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	start := time.Now()
	if req == nil {
		return nil, domain.NewValidationError("request body is required")
	}
	if err := validateCheckoutRequest(req); err != nil {
		monitoring.ObserveCheckout(monitoring.OutcomeValidation, time.Since(start))
		return nil, err
	}

	email := domain.NormalizeEmail(req.Email)
	groupEmails := domain.SanitizeEmails(req.GroupEmails)

	quote, err := domain.CalculatePrice(req.TicketType, req.GroupSize)
	if err != nil {
		monitoring.ObserveCheckout(monitoring.OutcomeValidation, time.Since(start))
		return nil, err
	}
	if quote.IsGroup && len(groupEmails) > quote.GroupSize {
		monitoring.ObserveCheckout(monitoring.OutcomeValidation, time.Since(start))
		return nil, domain.NewValidationError(
			fmt.Sprintf("%d group emails supplied for a group of %d", len(groupEmails), quote.GroupSize),
			"groupEmails",
		)
	}

	couponCode := domain.NormalizeCouponCode(req.CouponCode)
	if couponCode != "" && s.coupons != nil {
		v, err := s.coupons.Validate(ctx, couponCode, email)
		if err != nil {
			monitoring.ObserveCheckout(monitoring.OutcomeError, time.Since(start))
			return nil, fmt.Errorf("validate coupon: %w", err)
		}
		if !v.Valid {
			monitoring.ObserveCheckout(monitoring.OutcomeValidation, time.Since(start))
			return nil, domain.NewValidationError(fmt.Sprintf("coupon code %s is not valid: %s", couponCode, v.Reason), "couponCode")
		}
		quote = quote.ApplyDiscount(v.DiscountPercent)
	}

	requestID := strings.TrimSpace(req.RequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	key := IdempotencyKey(requestID, email, req.TicketType, req.RetryCount)
	if cached := s.cachedSession(ctx, key); cached != nil {
		cached.RequestID = requestID
		cached.ProcessingTime = time.Since(start)
		monitoring.ObserveCheckout(monitoring.OutcomeReplayed, cached.ProcessingTime)
		return cached, nil
	}

	params := &domain.CheckoutSessionParams{
		IdempotencyKey: key,
		Quote:          quote,
		CustomerEmail:  email,
		SuccessURL:     strings.TrimSpace(req.SuccessURL),
		CancelURL:      strings.TrimSpace(req.CancelURL),
		Metadata:       checkoutMetadata(req, requestID, email, couponCode, groupEmails),
	}

	sess, err := s.callProvider(ctx, params)
	if err != nil {
		monitoring.ObserveCheckout(checkoutOutcome(err), time.Since(start))
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, sess, SessionCacheTTL); err != nil {
			s.logger.WarnContext(ctx, "checkout session not cached", "request_id", requestID, "err", err)
		}
	}
	sess.RequestID = requestID
	sess.ProcessingTime = time.Since(start)
	monitoring.ObserveCheckout(monitoring.OutcomeSuccess, sess.ProcessingTime)
	return sess, nil
}

func (s *checkoutService) cachedSession(ctx context.Context, key string) *domain.CheckoutSession {
	if s.cache == nil {
		return nil
	}
	sess, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "checkout session cache lookup failed", "err", err)
		}
		return nil
	}
	return sess
}

func (s *checkoutService) SessionStatus(ctx context.Context, sessionID string) (*domain.CheckoutSessionStatus, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, domain.NewMissingFieldsError("sessionId")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	status, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: session lookup timed out after %s", domain.ErrPaymentUnavailable, s.timeout)
		}
		return nil, err
	}
	return status, nil
}

type providerResult struct {
	session *domain.CheckoutSession
	err     error
}

// callProvider races the provider call against the checkout timeout so a stalled
// provider surfaces as a retryable error instead of the platform killing the request.
func (s *checkoutService) callProvider(ctx context.Context, params *domain.CheckoutSessionParams) (*domain.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan providerResult, 1)
	go func() {
		sess, err := s.provider.CreateCheckoutSession(ctx, params)
		done <- providerResult{session: sess, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if ctx.Err() != nil && !errors.Is(res.err, domain.ErrPaymentUnavailable) {
				return nil, fmt.Errorf("%w: checkout timed out after %s", domain.ErrPaymentUnavailable, s.timeout)
			}
			return nil, res.err
		}
		if res.session == nil {
			return nil, &domain.ProviderError{Message: "payment provider returned no session"}
		}
		return res.session, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: checkout timed out after %s", domain.ErrPaymentUnavailable, s.timeout)
	}
}

func validateCheckoutRequest(req *domain.CheckoutRequest) error {
	var missing []string
	if strings.TrimSpace(string(req.TicketType)) == "" {
		missing = append(missing, "ticketType")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(req.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(req.SuccessURL) == "" {
		missing = append(missing, "successUrl")
	}
	if strings.TrimSpace(req.CancelURL) == "" {
		missing = append(missing, "cancelUrl")
	}
	if len(missing) > 0 {
		return domain.NewMissingFieldsError(missing...)
	}
	if !strings.Contains(req.Email, "@") {
		return domain.NewValidationError("email is not a valid address", "email")
	}
	if req.RetryCount < 0 {
		return domain.NewValidationError("retryCount must not be negative", "retryCount")
	}
	return nil
}

func checkoutMetadata(req *domain.CheckoutRequest, requestID, email, couponCode string, groupEmails []string) map[string]string {
	meta := map[string]string{
		domain.MetaRequestID:  requestID,
		domain.MetaEmail:      email,
		domain.MetaFullName:   strings.TrimSpace(req.FullName),
		domain.MetaTicketType: string(req.TicketType),
	}
	set := func(key, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		meta[key] = truncateUTF8(value, maxMetadataValueLen)
	}
	if req.TicketType.IsGroup() {
		set(domain.MetaGroupSize, strconv.Itoa(req.GroupSize))
	}
	set(domain.MetaOrganization, req.Organization)
	set(domain.MetaRole, req.Role)
	set(domain.MetaCouponCode, couponCode)
	set(domain.MetaReferralSource, req.ReferralSource)
	set(domain.MetaSpecialRequests, req.SpecialRequests)
	if len(groupEmails) > 0 {
		joined, n := joinWithin(groupEmails, ",", maxMetadataValueLen)
		set(domain.MetaGroupEmails, joined)
		if n < len(groupEmails) {
			meta[domain.MetaGroupEmailsTruncated] = "true"
		}
	}
	return meta
}

// joinWithin joins whole items only, stopping before the result would exceed max.
// It also reports how many items made it in.
func joinWithin(items []string, sep string, max int) (string, int) {
	var b strings.Builder
	count := 0
	for _, it := range items {
		need := len(it)
		if b.Len() > 0 {
			need += len(sep)
		}
		if b.Len()+need > max {
			break
		}
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(it)
		count++
	}
	return b.String(), count
}

// truncateUTF8 cuts s to at most max bytes without splitting a multi-byte character.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func checkoutOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrPaymentUnavailable):
		return monitoring.OutcomeUnavailable
	case errors.Is(err, domain.ErrPaymentConflict):
		return monitoring.OutcomeConflict
	default:
		var perr *domain.ProviderError
		if errors.As(err, &perr) {
			return monitoring.OutcomeProviderError
		}
		return monitoring.OutcomeError
	}
}
