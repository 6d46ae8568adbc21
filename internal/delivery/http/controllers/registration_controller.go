package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"conferenceregistration/internal/delivery/http/helpers"
	"conferenceregistration/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// FinalizeRegistrationRequest is the request body for POST /registrations.
type FinalizeRegistrationRequest struct {
	FullName           string              `json:"fullName"`
	Email              string              `json:"email"`
	Organization       string              `json:"organization"`
	Role               string              `json:"role"`
	TicketType         string              `json:"ticketType"`
	GroupSize          helpers.FlexibleInt `json:"groupSize" swaggertype:"integer"`
	GroupEmails        domain.EmailList    `json:"groupEmails" swaggertype:"array,string"`
	SpecialRequests    string              `json:"specialRequests"`
	ReferralSource     string              `json:"referralSource"`
	VerificationMethod string              `json:"verificationMethod"`
	CouponCode         string              `json:"couponCode"`
	// SessionID, when set, makes the server read the payment state from the provider.
	SessionID       string `json:"sessionId"`
	PaymentComplete bool   `json:"paymentComplete"`
}

// FinalizeRegistrationResponse is the success body for POST /registrations (200).
type FinalizeRegistrationResponse struct {
	Success        bool                   `json:"success"`
	Action         domain.FinalizeAction  `json:"action"`
	RegistrationID string                 `json:"registration_id"`
	Data           *domain.FinalizeResult `json:"data"`
	RequestID      string                 `json:"requestId"`
}

// FinalizeRegistration godoc
// @Summary Create or update a registration
// @Description Upserts the registration keyed by email after checkout. Group tickets also store the group and its member roster; a coupon is recorded once payment is complete. Secondary steps never fail the call.
// @Tags registrations
// @Accept json
// @Produce json
// @Param body body controllers.FinalizeRegistrationRequest true "Registration fields"
// @Success 200 {object} controllers.FinalizeRegistrationResponse "action is created or updated"
// @Failure 400 {object} helpers.APIError "error: validation_error"
// @Failure 429 {object} helpers.APIError "error: rate_limited"
// @Failure 500 {object} helpers.APIError "error: internal_error"
// @Failure 503 {object} helpers.APIError "error: service_unavailable (session lookup)"
// @Router /registrations [post]
func (c *RegistrationController) FinalizeRegistration(w http.ResponseWriter, r *http.Request) {
	var req FinalizeRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	requestID := helpers.RequestIDFromContext(r.Context())
	result, err := c.Service.Finalize(r.Context(), &domain.FinalizeRequest{
		RequestID:          requestID,
		FullName:           req.FullName,
		Email:              req.Email,
		Organization:       req.Organization,
		Role:               req.Role,
		TicketType:         domain.TicketType(strings.TrimSpace(req.TicketType)),
		GroupSize:          int(req.GroupSize),
		GroupEmails:        req.GroupEmails,
		SpecialRequests:    req.SpecialRequests,
		ReferralSource:     req.ReferralSource,
		VerificationMethod: req.VerificationMethod,
		CouponCode:         req.CouponCode,
		CheckoutSessionID:  req.SessionID,
		PaymentComplete:    req.PaymentComplete,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}

	c.Logger.InfoContext(r.Context(), "registration finalized",
		"request_id", requestID,
		"action", result.Action,
		"registration_id", result.Registration.ID,
		"status", result.Registration.Status,
	)
	helpers.WriteJSON(w, http.StatusOK, FinalizeRegistrationResponse{
		Success:        true,
		Action:         result.Action,
		RegistrationID: result.Registration.ID,
		Data:           result,
		RequestID:      requestID,
	})
}
