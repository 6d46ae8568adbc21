package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"conferenceregistration/internal/delivery/http/helpers"
	"conferenceregistration/internal/domain"
)

// maxWebhookBytes bounds the webhook payload read into memory.
const maxWebhookBytes = 65536

// CheckoutEventParser verifies a signed provider webhook and extracts the finalize request.
// It returns domain.ErrUnauthorized for bad signatures and domain.ErrEventIgnored for
// events that need no action.
type CheckoutEventParser interface {
	ParseCheckoutCompleted(payload []byte, signature string) (*domain.FinalizeRequest, error)
}

type WebhookController struct {
	Logger        *slog.Logger
	Parser        CheckoutEventParser
	Registrations domain.RegistrationService
}

func NewWebhookController(logger *slog.Logger, parser CheckoutEventParser, registrations domain.RegistrationService) *WebhookController {
	return &WebhookController{
		Logger:        logger,
		Parser:        parser,
		Registrations: registrations,
	}
}

// WebhookAck is the body returned to the payment provider.
type WebhookAck struct {
	Received  bool   `json:"received"`
	RequestID string `json:"requestId"`
}

// StripeWebhook godoc
// @Summary Receive Stripe events
// @Description Verifies the Stripe-Signature header. Completed checkout sessions finalize the registration from the session metadata; other events are acknowledged and ignored. Only storage failures return 5xx so that Stripe retries.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} controllers.WebhookAck
// @Failure 400 {object} helpers.APIError "error: bad_request (signature)"
// @Failure 500 {object} helpers.APIError "error: internal_error"
// @Router /webhooks/stripe [post]
func (c *WebhookController) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	requestID := helpers.RequestIDFromContext(r.Context())
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		helpers.WriteJSONError(w, r, http.StatusBadRequest, helpers.ErrCodeBadRequest, "could not read payload")
		return
	}

	req, err := c.Parser.ParseCheckoutCompleted(payload, r.Header.Get("Stripe-Signature"))
	switch {
	case errors.Is(err, domain.ErrEventIgnored):
		helpers.WriteJSON(w, http.StatusOK, WebhookAck{Received: true, RequestID: requestID})
		return
	case errors.Is(err, domain.ErrUnauthorized):
		c.Logger.WarnContext(r.Context(), "webhook signature rejected", "request_id", requestID, "err", err)
		helpers.WriteJSONError(w, r, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid signature")
		return
	case err != nil:
		c.Logger.WarnContext(r.Context(), "webhook payload rejected", "request_id", requestID, "err", err)
		helpers.WriteJSONError(w, r, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	if req.RequestID == "" {
		req.RequestID = requestID
	}
	result, err := c.Registrations.Finalize(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			// Retrying an incomplete session cannot succeed.
			c.Logger.WarnContext(r.Context(), "webhook session not finalized",
				"request_id", req.RequestID, "session_id", req.CheckoutSessionID, "err", err)
			helpers.WriteJSON(w, http.StatusOK, WebhookAck{Received: true, RequestID: requestID})
			return
		}
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}

	c.Logger.InfoContext(r.Context(), "registration finalized from webhook",
		"request_id", req.RequestID,
		"session_id", req.CheckoutSessionID,
		"action", result.Action,
		"status", result.Registration.Status,
	)
	helpers.WriteJSON(w, http.StatusOK, WebhookAck{Received: true, RequestID: requestID})
}
