package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferenceregistration/internal/delivery/http/helpers"
	"conferenceregistration/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCouponService implements domain.CouponService for handler tests.
type fakeCouponService struct {
	validation    *domain.CouponValidation
	validateErr   error
	lastCode      string
	lastEmail     string
	coupons       []*domain.CouponCode
	listErr       error
	createErr     error
	lastCreated   *domain.CouponCode
	recordedCalls int
}

func (f *fakeCouponService) Validate(ctx context.Context, code, email string) (*domain.CouponValidation, error) {
	f.lastCode, f.lastEmail = code, email
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	return f.validation, nil
}

func (f *fakeCouponService) RecordUsage(ctx context.Context, code, email string) (bool, error) {
	f.recordedCalls++
	return true, nil
}

func (f *fakeCouponService) IsUnlimited(code string) bool { return false }

func (f *fakeCouponService) Create(ctx context.Context, coupon *domain.CouponCode) error {
	f.lastCreated = coupon
	if f.createErr != nil {
		return f.createErr
	}
	coupon.ID = "cp-1"
	coupon.Code = domain.NormalizeCouponCode(coupon.Code)
	return nil
}

func (f *fakeCouponService) List(ctx context.Context) ([]*domain.CouponCode, error) {
	return f.coupons, f.listErr
}

func TestCouponController_ValidateCoupon(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		validation  *domain.CouponValidation
		svcErr      error
		wantStatus  int
		wantCode    string
		wantValid   bool
		wantPercent int
		wantReason  string
	}{
		{
			name:        "valid code",
			body:        `{"code":"early20","email":"Ada@Example.com"}`,
			validation:  &domain.CouponValidation{Code: "EARLY20", Valid: true, DiscountPercent: 20},
			wantStatus:  http.StatusOK,
			wantValid:   true,
			wantPercent: 20,
		},
		{
			name:       "exhausted code",
			body:       `{"code":"early20","email":"ada@example.com"}`,
			validation: &domain.CouponValidation{Code: "EARLY20", Reason: domain.CouponReasonUsageLimitReached},
			wantStatus: http.StatusOK,
			wantReason: domain.CouponReasonUsageLimitReached,
		},
		{
			name:       "missing code",
			body:       `{"email":"ada@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeValidation,
		},
		{
			name:       "store failure",
			body:       `{"code":"early20","email":"ada@example.com"}`,
			svcErr:     errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeCouponService{validation: tt.validation, validateErr: tt.svcErr}
			ctrl := NewCouponController(testLogger, svc)
			w := httptest.NewRecorder()

			ctrl.ValidateCoupon(w, postJSON("/coupons/validate", tt.body))

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeAPIError(t, w).Error)
				return
			}
			var resp ValidateCouponResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantValid, resp.Valid)
			assert.Equal(t, tt.wantPercent, resp.DiscountPercent)
			assert.Equal(t, tt.wantReason, resp.Reason)
			assert.Equal(t, "ada@example.com", svc.lastEmail)
			assert.Zero(t, svc.recordedCalls, "validation must not record usage")
		})
	}
}

func TestCouponController_CreateCoupon(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeCouponService{}
		ctrl := NewCouponController(testLogger, svc)
		w := httptest.NewRecorder()

		ctrl.CreateCoupon(w, postJSON("/admin/coupons", `{"code":"vip","discount_percent":100,"usage_limit":10}`))

		require.Equal(t, http.StatusCreated, w.Code)
		var resp CreateCouponSuccessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "cp-1", resp.Data.ID)
		assert.Equal(t, "VIP", resp.Data.Code)
		require.NotNil(t, resp.Data.UsageLimit)
		assert.Equal(t, 10, *resp.Data.UsageLimit)
	})

	t.Run("percent out of range", func(t *testing.T) {
		svc := &fakeCouponService{}
		ctrl := NewCouponController(testLogger, svc)
		w := httptest.NewRecorder()

		ctrl.CreateCoupon(w, postJSON("/admin/coupons", `{"code":"vip","discount_percent":150}`))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, svc.lastCreated)
	})

	t.Run("duplicate code", func(t *testing.T) {
		svc := &fakeCouponService{createErr: domain.ErrAlreadyExists}
		ctrl := NewCouponController(testLogger, svc)
		w := httptest.NewRecorder()

		ctrl.CreateCoupon(w, postJSON("/admin/coupons", `{"code":"vip","discount_percent":10}`))

		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, helpers.ErrCodeConflict, decodeAPIError(t, w).Error)
	})
}

func TestCouponController_ListCoupons(t *testing.T) {
	t.Run("empty list encodes as array", func(t *testing.T) {
		ctrl := NewCouponController(testLogger, &fakeCouponService{})
		w := httptest.NewRecorder()

		ctrl.ListCoupons(w, httptest.NewRequest(http.MethodGet, "/admin/coupons", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":[],"requestId":""}`, w.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		ctrl := NewCouponController(testLogger, &fakeCouponService{listErr: errors.New("db down")})
		w := httptest.NewRecorder()

		ctrl.ListCoupons(w, httptest.NewRequest(http.MethodGet, "/admin/coupons", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
