package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"conferenceregistration/internal/delivery/http/helpers"
	"conferenceregistration/internal/domain"
)

type CouponController struct {
	Logger  *slog.Logger
	Service domain.CouponService
}

func NewCouponController(logger *slog.Logger, svc domain.CouponService) *CouponController {
	return &CouponController{
		Logger:  logger,
		Service: svc,
	}
}

// ValidateCouponRequest is the request body for POST /coupons/validate.
type ValidateCouponRequest struct {
	Code  string `json:"code"`
	Email string `json:"email"`
}

// Validate implements helpers.Validator.
func (r *ValidateCouponRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Code) == "" {
		errs = append(errs, "code is required")
	}
	if !strings.Contains(r.Email, "@") {
		errs = append(errs, "email is required")
	}
	return errs
}

// ValidateCouponResponse is the success body for POST /coupons/validate (200).
type ValidateCouponResponse struct {
	Valid           bool   `json:"valid"`
	DiscountPercent int    `json:"discountPercent"`
	Reason          string `json:"reason,omitempty"`
	RequestID       string `json:"requestId"`
}

// ValidateCoupon godoc
// @Summary Check a coupon code for an email
// @Description Read-only check. Usage is recorded only when a paid registration is finalized.
// @Tags coupons
// @Accept json
// @Produce json
// @Param body body controllers.ValidateCouponRequest true "Code and email"
// @Success 200 {object} controllers.ValidateCouponResponse "reason: not_found, usage_limit_reached or already_used_by_email when invalid"
// @Failure 400 {object} helpers.APIError "error: validation_error"
// @Failure 500 {object} helpers.APIError "error: internal_error"
// @Router /coupons/validate [post]
func (c *CouponController) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req ValidateCouponRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	v, err := c.Service.Validate(r.Context(), req.Code, domain.NormalizeEmail(req.Email))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ValidateCouponResponse{
		Valid:           v.Valid,
		DiscountPercent: v.DiscountPercent,
		Reason:          v.Reason,
		RequestID:       helpers.RequestIDFromContext(r.Context()),
	})
}

// ListCouponsSuccessResponse is the success envelope for GET /admin/coupons (200).
type ListCouponsSuccessResponse struct {
	Success   bool                 `json:"success"`
	Data      []*domain.CouponCode `json:"data"`
	RequestID string               `json:"requestId"`
}

// ListCoupons godoc
// @Summary List coupon codes
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListCouponsSuccessResponse
// @Failure 401 {object} helpers.APIError "error: unauthorized"
// @Failure 500 {object} helpers.APIError "error: internal_error"
// @Router /admin/coupons [get]
func (c *CouponController) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := c.Service.List(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if coupons == nil {
		coupons = []*domain.CouponCode{}
	}
	helpers.WriteJSONSuccess(w, r, http.StatusOK, coupons)
}

// CreateCouponRequest is the request body for POST /admin/coupons.
type CreateCouponRequest struct {
	Code            string `json:"code"`
	DiscountPercent int    `json:"discount_percent"`
	UsageLimit      *int   `json:"usage_limit"`
}

// Validate implements helpers.Validator.
func (r *CreateCouponRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Code) == "" {
		errs = append(errs, "code is required")
	}
	if r.DiscountPercent < 0 || r.DiscountPercent > 100 {
		errs = append(errs, "discount_percent must be between 0 and 100")
	}
	if r.UsageLimit != nil && *r.UsageLimit < 0 {
		errs = append(errs, "usage_limit must not be negative")
	}
	return errs
}

// CreateCouponSuccessResponse is the success envelope for POST /admin/coupons (201).
type CreateCouponSuccessResponse struct {
	Success   bool               `json:"success"`
	Data      *domain.CouponCode `json:"data"`
	RequestID string             `json:"requestId"`
}

// CreateCoupon godoc
// @Summary Create a coupon code
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateCouponRequest true "Coupon"
// @Success 201 {object} controllers.CreateCouponSuccessResponse
// @Failure 400 {object} helpers.APIError "error: validation_error"
// @Failure 401 {object} helpers.APIError "error: unauthorized"
// @Failure 409 {object} helpers.APIError "error: conflict (code exists)"
// @Failure 500 {object} helpers.APIError "error: internal_error"
// @Router /admin/coupons [post]
func (c *CouponController) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	coupon := &domain.CouponCode{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		UsageLimit:      req.UsageLimit,
	}
	if err := c.Service.Create(r.Context(), coupon); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, r, http.StatusCreated, coupon)
}
