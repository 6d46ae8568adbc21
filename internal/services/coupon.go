package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conferenceregistration/internal/domain"
)

type couponService struct {
	repo      domain.CouponRepository
	unlimited map[string]struct{}
}

// NewCouponService creates a CouponService. unlimitedCodes is the allow-list of
// school codes that any number of distinct emails may use, once each.
func NewCouponService(repo domain.CouponRepository, unlimitedCodes []string) domain.CouponService {
	unlimited := make(map[string]struct{}, len(unlimitedCodes))
	for _, c := range unlimitedCodes {
		if c = domain.NormalizeCouponCode(c); c != "" {
			unlimited[c] = struct{}{}
		}
	}
	return &couponService{repo: repo, unlimited: unlimited}
}

func (s *couponService) IsUnlimited(code string) bool {
	_, ok := s.unlimited[domain.NormalizeCouponCode(code)]
	return ok
}

func (s *couponService) Validate(ctx context.Context, code, email string) (*domain.CouponValidation, error) {
	code = domain.NormalizeCouponCode(code)
	email = domain.NormalizeEmail(email)
	if code == "" {
		return &domain.CouponValidation{Code: code, Reason: domain.CouponReasonEmpty}, nil
	}

	if s.IsUnlimited(code) {
		v := &domain.CouponValidation{Code: code, Unlimited: true}
		if email != "" {
			used, err := s.repo.HasRedemption(ctx, code, email)
			if err != nil {
				return nil, fmt.Errorf("check coupon redemption: %w", err)
			}
			if used {
				v.Reason = domain.CouponReasonAlreadyUsed
				return v, nil
			}
		}
		// School codes need not exist in the table; when they do they may carry a discount.
		coupon, err := s.repo.GetByCode(ctx, code)
		switch {
		case err == nil:
			v.DiscountPercent = coupon.DiscountPercent
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("get coupon: %w", err)
		}
		v.Valid = true
		return v, nil
	}

	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.CouponValidation{Code: code, Reason: domain.CouponReasonNotFound}, nil
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon.Exhausted() {
		return &domain.CouponValidation{Code: code, Reason: domain.CouponReasonUsageLimitReached}, nil
	}
	if email != "" {
		used, err := s.repo.HasRedemption(ctx, code, email)
		if err != nil {
			return nil, fmt.Errorf("check coupon redemption: %w", err)
		}
		if used {
			return &domain.CouponValidation{Code: code, Reason: domain.CouponReasonAlreadyUsed}, nil
		}
	}
	return &domain.CouponValidation{Code: code, Valid: true, DiscountPercent: coupon.DiscountPercent}, nil
}

func (s *couponService) RecordUsage(ctx context.Context, code, email string) (bool, error) {
	code = domain.NormalizeCouponCode(code)
	email = domain.NormalizeEmail(email)
	if code == "" || email == "" {
		return false, nil
	}
	if !s.IsUnlimited(code) {
		if _, err := s.repo.GetByCode(ctx, code); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return false, domain.ErrCouponInvalid
			}
			return false, fmt.Errorf("get coupon: %w", err)
		}
	}
	redeemed, err := s.repo.Redeem(ctx, code, email, !s.IsUnlimited(code))
	if err != nil {
		return false, fmt.Errorf("redeem coupon: %w", err)
	}
	return redeemed, nil
}

func (s *couponService) Create(ctx context.Context, coupon *domain.CouponCode) error {
	if coupon == nil {
		return domain.NewValidationError("coupon is required")
	}
	coupon.Code = domain.NormalizeCouponCode(coupon.Code)
	if coupon.Code == "" {
		return domain.NewMissingFieldsError("code")
	}
	if coupon.DiscountPercent < 0 || coupon.DiscountPercent > 100 {
		return domain.NewValidationError("discount_percent must be between 0 and 100", "discount_percent")
	}
	if coupon.UsageLimit != nil && *coupon.UsageLimit < 0 {
		return domain.NewValidationError("usage_limit must not be negative", "usage_limit")
	}
	now := time.Now()
	coupon.UsageCount = 0
	coupon.CreatedAt = now
	coupon.UpdatedAt = now
	if err := s.repo.Create(ctx, coupon); err != nil {
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}

func (s *couponService) List(ctx context.Context) ([]*domain.CouponCode, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return coupons, nil
}
