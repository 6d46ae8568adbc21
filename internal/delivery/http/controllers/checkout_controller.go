package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"conferenceregistration/internal/delivery/http/helpers"
	"conferenceregistration/internal/delivery/http/middleware"
	"conferenceregistration/internal/domain"
)

type CheckoutController struct {
	Logger  *slog.Logger
	Service domain.CheckoutService
}

func NewCheckoutController(logger *slog.Logger, svc domain.CheckoutService) *CheckoutController {
	return &CheckoutController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateCheckoutSessionRequest is the request body for POST /checkout-sessions.
type CreateCheckoutSessionRequest struct {
	TicketType      string              `json:"ticketType"`
	Email           string              `json:"email"`
	FullName        string              `json:"fullName"`
	GroupSize       helpers.FlexibleInt `json:"groupSize" swaggertype:"integer"`
	Organization    string              `json:"organization"`
	Role            string              `json:"role"`
	SpecialRequests string              `json:"specialRequests"`
	ReferralSource  string              `json:"referralSource"`
	GroupEmails     domain.EmailList    `json:"groupEmails" swaggertype:"array,string"`
	CouponCode      string              `json:"couponCode"`
	SuccessURL      string              `json:"successUrl"`
	CancelURL       string              `json:"cancelUrl"`
	RequestID       string              `json:"requestId"`
	RetryCount      helpers.FlexibleInt `json:"retryCount" swaggertype:"integer"`
}

// CheckoutSessionResponse is the success body for POST /checkout-sessions (200).
type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
	// ProcessingTime is the server-side handling time in milliseconds.
	ProcessingTime int64  `json:"processingTime"`
	RequestID      string `json:"requestId"`
}

// CreateCheckoutSession godoc
// @Summary Create a checkout session
// @Description Prices the ticket, applies an optional coupon and opens a hosted payment page. Requests with the same requestId, email, ticketType and retryCount reuse one session.
// @Tags checkout
// @Accept json
// @Produce json
// @Param body body controllers.CreateCheckoutSessionRequest true "Ticket and registrant details"
// @Success 200 {object} controllers.CheckoutSessionResponse
// @Failure 400 {object} helpers.APIError "error: validation_error or payment_error"
// @Failure 409 {object} helpers.APIError "error: conflict (checkout already in progress)"
// @Failure 429 {object} helpers.APIError "error: rate_limited"
// @Failure 500 {object} helpers.APIError "error: internal_error"
// @Failure 503 {object} helpers.APIError "error: service_unavailable (retry)"
// @Router /checkout-sessions [post]
func (c *CheckoutController) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutSessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	requestID := strings.TrimSpace(req.RequestID)
	if requestID != "" && len(requestID) <= 64 {
		r = r.WithContext(helpers.WithRequestID(r.Context(), requestID))
		w.Header().Set(middleware.RequestIDHeader, requestID)
	} else {
		requestID = helpers.RequestIDFromContext(r.Context())
	}

	sess, err := c.Service.CreateSession(r.Context(), &domain.CheckoutRequest{
		RequestID:       requestID,
		RetryCount:      int(req.RetryCount),
		TicketType:      domain.TicketType(strings.TrimSpace(req.TicketType)),
		Email:           req.Email,
		FullName:        req.FullName,
		GroupSize:       int(req.GroupSize),
		Organization:    req.Organization,
		Role:            req.Role,
		SpecialRequests: req.SpecialRequests,
		ReferralSource:  req.ReferralSource,
		GroupEmails:     req.GroupEmails,
		CouponCode:      req.CouponCode,
		SuccessURL:      req.SuccessURL,
		CancelURL:       req.CancelURL,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}

	c.Logger.InfoContext(r.Context(), "checkout session created",
		"request_id", sess.RequestID,
		"session_id", sess.SessionID,
		"ticket_type", req.TicketType,
		"duration_ms", sess.ProcessingTime.Milliseconds(),
	)
	helpers.WriteJSON(w, http.StatusOK, CheckoutSessionResponse{
		SessionID:      sess.SessionID,
		URL:            sess.URL,
		ProcessingTime: sess.ProcessingTime.Milliseconds(),
		RequestID:      sess.RequestID,
	})
}
