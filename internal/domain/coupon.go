package domain

import (
	"context"
	"strings"
	"time"
)

// Reasons reported when a coupon does not validate.
const (
	CouponReasonNotFound          = "not_found"
	CouponReasonUsageLimitReached = "usage_limit_reached"
	CouponReasonAlreadyUsed       = "already_used_by_email"
	CouponReasonEmpty             = "empty_code"
)

// CouponCode is a discount or verification code. UsageLimit nil means no limit.
// swagger:model CouponCode
type CouponCode struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discount_percent"`
	UsageCount      int       `json:"usage_count"`
	UsageLimit      *int      `json:"usage_limit,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Exhausted reports whether the coupon has reached its usage limit.
func (c *CouponCode) Exhausted() bool {
	return c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit
}

// NormalizeCouponCode trims and upper-cases a code so lookups are case-insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponValidation is the result of validating a code for an email.
// swagger:model CouponValidation
type CouponValidation struct {
	Code            string `json:"code"`
	Valid           bool   `json:"valid"`
	DiscountPercent int    `json:"discount_percent"`
	Unlimited       bool   `json:"unlimited"`
	Reason          string `json:"reason,omitempty"`
}

// CouponRepository defines storage operations for coupon codes and their redemptions.
type CouponRepository interface {
	Create(ctx context.Context, coupon *CouponCode) error
	GetByCode(ctx context.Context, code string) (*CouponCode, error)
	List(ctx context.Context) ([]*CouponCode, error)
	HasRedemption(ctx context.Context, code, email string) (bool, error)
	// Redeem records that email used code. The first redemption for the pair returns true;
	// when incrementUsage is set the usage counter is bumped in the same transaction.
	// Later calls for the same pair are no-ops returning false.
	Redeem(ctx context.Context, code, email string, incrementUsage bool) (bool, error)
}

// CouponService validates coupon codes and records their usage.
type CouponService interface {
	Validate(ctx context.Context, code, email string) (*CouponValidation, error)
	// RecordUsage is the only place coupon usage is counted. Unlimited school codes
	// are recorded per email but never increment the usage counter.
	RecordUsage(ctx context.Context, code, email string) (bool, error)
	IsUnlimited(code string) bool
	Create(ctx context.Context, coupon *CouponCode) error
	List(ctx context.Context) ([]*CouponCode, error)
}
