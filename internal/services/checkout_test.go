package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"conferenceregistration/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCheckoutRequest() *domain.CheckoutRequest {
	return &domain.CheckoutRequest{
		RequestID:  "req-1",
		TicketType: domain.TicketProfessional,
		Email:      "Ada@Example.com",
		FullName:   "Ada Lovelace",
		SuccessURL: "https://conf.example.com/success",
		CancelURL:  "https://conf.example.com/cancel",
	}
}

func TestIdempotencyKey(t *testing.T) {
	base := IdempotencyKey("req-1", "ada@example.com", domain.TicketStudent, 0)

	assert.True(t, strings.HasPrefix(base, "checkout_"))
	assert.Len(t, base, len("checkout_")+64)
	assert.Equal(t, base, IdempotencyKey("req-1", " ADA@example.com ", domain.TicketStudent, 0), "email is normalized")
	assert.NotEqual(t, base, IdempotencyKey("req-1", "ada@example.com", domain.TicketStudent, 1), "retry changes key")
	assert.NotEqual(t, base, IdempotencyKey("req-2", "ada@example.com", domain.TicketStudent, 0))
	assert.NotEqual(t, base, IdempotencyKey("req-1", "ada@example.com", domain.TicketProfessional, 0))
}

func TestCheckoutService_CreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("professional ticket", func(t *testing.T) {
		provider := &fakeProvider{}
		svc := NewCheckoutService(CheckoutDeps{Provider: provider, Logger: testLogger})

		sess, err := svc.CreateSession(ctx, validCheckoutRequest())

		require.NoError(t, err)
		assert.Equal(t, "req-1", sess.RequestID)
		assert.NotEmpty(t, sess.SessionID)
		require.Equal(t, 1, provider.callCount())
		p := provider.lastParams
		assert.Equal(t, int64(10000), p.Quote.AmountMinorUnits)
		assert.Equal(t, "ada@example.com", p.CustomerEmail)
		assert.Equal(t, IdempotencyKey("req-1", "ada@example.com", domain.TicketProfessional, 0), p.IdempotencyKey)
		assert.Equal(t, "req-1", p.Metadata[domain.MetaRequestID])
		assert.Equal(t, "professional", p.Metadata[domain.MetaTicketType])
		assert.NotContains(t, p.Metadata, domain.MetaGroupSize)
	})

	t.Run("student group", func(t *testing.T) {
		provider := &fakeProvider{}
		svc := NewCheckoutService(CheckoutDeps{Provider: provider, Logger: testLogger})
		req := validCheckoutRequest()
		req.TicketType = domain.TicketStudentGroup
		req.GroupSize = 6
		req.GroupEmails = []string{"A@uni.edu", "b@uni.edu", "a@uni.edu", "junk"}

		_, err := svc.CreateSession(ctx, req)

		require.NoError(t, err)
		p := provider.lastParams
		assert.Equal(t, int64(24000), p.Quote.AmountMinorUnits)
		assert.Equal(t, int64(6), p.Quote.Quantity)
		assert.Equal(t, "6", p.Metadata[domain.MetaGroupSize])
		assert.Equal(t, "a@uni.edu,b@uni.edu", p.Metadata[domain.MetaGroupEmails])
		assert.NotContains(t, p.Metadata, domain.MetaGroupEmailsTruncated)
	})

	t.Run("roster longer than metadata limit is flagged", func(t *testing.T) {
		provider := &fakeProvider{}
		svc := NewCheckoutService(CheckoutDeps{Provider: provider, Logger: testLogger})
		req := validCheckoutRequest()
		req.TicketType = domain.TicketStudentGroup
		req.GroupSize = 20
		req.GroupEmails = rosterEmails(20)

		_, err := svc.CreateSession(ctx, req)

		require.NoError(t, err)
		p := provider.lastParams
		kept := strings.Split(p.Metadata[domain.MetaGroupEmails], ",")
		assert.Len(t, kept, 15)
		assert.Equal(t, req.GroupEmails[:15], kept)
		assert.Equal(t, "true", p.Metadata[domain.MetaGroupEmailsTruncated])
	})

	t.Run("coupon discount applied", func(t *testing.T) {
		provider := &fakeProvider{}
		coupons := NewCouponService(newFakeCouponRepo(&domain.CouponCode{Code: "EARLY20", DiscountPercent: 20}), nil)
		svc := NewCheckoutService(CheckoutDeps{Provider: provider, Coupons: coupons, Logger: testLogger})
		req := validCheckoutRequest()
		req.CouponCode = "early20"

		_, err := svc.CreateSession(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, int64(8000), provider.lastParams.Quote.AmountMinorUnits)
		assert.Equal(t, "EARLY20", provider.lastParams.Metadata[domain.MetaCouponCode])
	})

	t.Run("invalid coupon never reaches provider", func(t *testing.T) {
		provider := &fakeProvider{}
		coupons := NewCouponService(newFakeCouponRepo(), nil)
		svc := NewCheckoutService(CheckoutDeps{Provider: provider, Coupons: coupons, Logger: testLogger})
		req := validCheckoutRequest()
		req.CouponCode = "BOGUS"

		_, err := svc.CreateSession(ctx, req)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"couponCode"}, verr.Fields)
		assert.Zero(t, provider.callCount())
	})

	t.Run("generated request id", func(t *testing.T) {
		provider := &fakeProvider{}
		svc := NewCheckoutService(CheckoutDeps{Provider: provider, Logger: testLogger})
		req := validCheckoutRequest()
		req.RequestID = ""

		sess, err := svc.CreateSession(ctx, req)

		require.NoError(t, err)
		assert.NotEmpty(t, sess.RequestID)
		assert.Equal(t, sess.RequestID, provider.lastParams.Metadata[domain.MetaRequestID])
	})

	t.Run("long metadata values are capped", func(t *testing.T) {
		provider := &fakeProvider{}
		svc := NewCheckoutService(CheckoutDeps{Provider: provider, Logger: testLogger})
		req := validCheckoutRequest()
		req.SpecialRequests = strings.Repeat("x", 900)

		_, err := svc.CreateSession(ctx, req)

		require.NoError(t, err)
		assert.Len(t, provider.lastParams.Metadata[domain.MetaSpecialRequests], 500)
	})

	t.Run("multi-byte text is cut on a character boundary", func(t *testing.T) {
		provider := &fakeProvider{}
		svc := NewCheckoutService(CheckoutDeps{Provider: provider, Logger: testLogger})
		req := validCheckoutRequest()
		req.SpecialRequests = "x" + strings.Repeat("é", 300)

		_, err := svc.CreateSession(ctx, req)

		require.NoError(t, err)
		got := provider.lastParams.Metadata[domain.MetaSpecialRequests]
		assert.True(t, utf8.ValidString(got))
		assert.Len(t, got, 499)
	})
}

// rosterEmails returns n distinct 31-byte addresses; 15 of them fit in one metadata value.
func rosterEmails(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("member%02d@university-example.edu", i)
	}
	return out
}

func TestTruncateUTF8(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{in: "short", max: 10, want: "short"},
		{in: "abcdef", max: 3, want: "abc"},
		{in: "aé", max: 2, want: "a"},
		{in: "aé", max: 3, want: "aé"},
		{in: "日本", max: 4, want: "日"},
		{in: "日本", max: 2, want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncateUTF8(tt.in, tt.max), "%q/%d", tt.in, tt.max)
	}
}

func TestCheckoutService_CreateSession_Validation(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*domain.CheckoutRequest)
		wantFields []string
	}{
		{
			name: "missing fields",
			mutate: func(r *domain.CheckoutRequest) {
				r.Email = ""
				r.FullName = " "
			},
			wantFields: []string{"email", "fullName"},
		},
		{
			name:       "invalid ticket type",
			mutate:     func(r *domain.CheckoutRequest) { r.TicketType = "vip" },
			wantFields: []string{"ticketType"},
		},
		{
			name: "group below minimum",
			mutate: func(r *domain.CheckoutRequest) {
				r.TicketType = domain.TicketStudentGroup
				r.GroupSize = 4
			},
			wantFields: []string{"groupSize"},
		},
		{
			name: "more emails than seats",
			mutate: func(r *domain.CheckoutRequest) {
				r.TicketType = domain.TicketStudentGroup
				r.GroupSize = 5
				r.GroupEmails = []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io", "e@x.io", "f@x.io"}
			},
			wantFields: []string{"groupEmails"},
		},
		{
			name:       "malformed email",
			mutate:     func(r *domain.CheckoutRequest) { r.Email = "ada" },
			wantFields: []string{"email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{}
			svc := NewCheckoutService(CheckoutDeps{Provider: provider, Logger: testLogger})
			req := validCheckoutRequest()
			tt.mutate(req)

			_, err := svc.CreateSession(context.Background(), req)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, tt.wantFields, verr.Fields)
			assert.Zero(t, provider.callCount())
		})
	}
}

func TestCheckoutService_CreateSession_ReplayUsesCache(t *testing.T) {
	provider := &fakeProvider{}
	cache := newFakeSessionCache()
	svc := NewCheckoutService(CheckoutDeps{Provider: provider, Cache: cache, Logger: testLogger})

	first, err := svc.CreateSession(context.Background(), validCheckoutRequest())
	require.NoError(t, err)
	second, err := svc.CreateSession(context.Background(), validCheckoutRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, provider.callCount())
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.URL, second.URL)

	retry := validCheckoutRequest()
	retry.RetryCount = 1
	_, err = svc.CreateSession(context.Background(), retry)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.callCount())
}

func TestCheckoutService_CreateSession_CacheFailuresDoNotFail(t *testing.T) {
	provider := &fakeProvider{}
	cache := newFakeSessionCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	svc := NewCheckoutService(CheckoutDeps{Provider: provider, Cache: cache, Logger: testLogger})

	_, err := svc.CreateSession(context.Background(), validCheckoutRequest())

	require.NoError(t, err)
	assert.Equal(t, 1, provider.callCount())
}

func TestCheckoutService_CreateSession_ConcurrentReplays(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewCheckoutService(CheckoutDeps{Provider: provider, Cache: NewMemoryCheckoutCache(), Logger: testLogger})

	// Warm the cache, then fire concurrent replays of the same attempt.
	_, err := svc.CreateSession(context.Background(), validCheckoutRequest())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateSession(context.Background(), validCheckoutRequest())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, provider.callCount())
}

func TestCheckoutService_CreateSession_ProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantAs  bool
		timeout time.Duration
		block   bool
	}{
		{name: "conflict", err: domain.ErrPaymentConflict, wantIs: domain.ErrPaymentConflict},
		{name: "unavailable", err: domain.ErrPaymentUnavailable, wantIs: domain.ErrPaymentUnavailable},
		{name: "rejected", err: &domain.ProviderError{Message: "Invalid email"}, wantAs: true},
		{name: "timeout", block: true, timeout: 20 * time.Millisecond, wantIs: domain.ErrPaymentUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{err: tt.err, block: tt.block}
			cache := newFakeSessionCache()
			svc := NewCheckoutService(CheckoutDeps{Provider: provider, Cache: cache, Timeout: tt.timeout, Logger: testLogger})

			_, err := svc.CreateSession(context.Background(), validCheckoutRequest())

			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantAs {
				var perr *domain.ProviderError
				assert.ErrorAs(t, err, &perr)
			}
			assert.Empty(t, cache.sessions, "failed sessions are not cached")
		})
	}
}

func TestCheckoutService_SessionStatus(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		provider := &fakeProvider{status: &domain.CheckoutSessionStatus{SessionID: "cs_1", Paid: true}}
		svc := NewCheckoutService(CheckoutDeps{Provider: provider, Logger: testLogger})
		st, err := svc.SessionStatus(context.Background(), " cs_1 ")
		require.NoError(t, err)
		assert.True(t, st.Paid)
	})

	t.Run("blank id", func(t *testing.T) {
		svc := NewCheckoutService(CheckoutDeps{Provider: &fakeProvider{}, Logger: testLogger})
		_, err := svc.SessionStatus(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("provider error passes through", func(t *testing.T) {
		provider := &fakeProvider{statusErr: domain.ErrNotFound}
		svc := NewCheckoutService(CheckoutDeps{Provider: provider, Logger: testLogger})
		_, err := svc.SessionStatus(context.Background(), "cs_missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
