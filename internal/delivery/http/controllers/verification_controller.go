package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"conferenceregistration/internal/delivery/http/helpers"
	"conferenceregistration/internal/domain"
)

type VerificationController struct {
	Logger  *slog.Logger
	Service domain.VerificationService
}

func NewVerificationController(logger *slog.Logger, svc domain.VerificationService) *VerificationController {
	return &VerificationController{
		Logger:  logger,
		Service: svc,
	}
}

// EmailVerifiedData is the data payload of a successful verification.
type EmailVerifiedData struct {
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// VerifyEmailSuccessResponse is the success envelope for GET /verify-email (200).
type VerifyEmailSuccessResponse struct {
	Success   bool              `json:"success"`
	Data      EmailVerifiedData `json:"data"`
	RequestID string            `json:"requestId"`
}

// VerifyEmail godoc
// @Summary Verify an email address
// @Description Redeems the signed link sent after registration or to invited group members.
// @Tags registrations
// @Produce json
// @Param token query string true "Verification token from the email link"
// @Success 200 {object} controllers.VerifyEmailSuccessResponse
// @Failure 400 {object} helpers.APIError "error: bad_request (missing token)"
// @Failure 401 {object} helpers.APIError "error: unauthorized (invalid or expired link)"
// @Failure 404 {object} helpers.APIError "error: not_found"
// @Failure 500 {object} helpers.APIError "error: internal_error"
// @Router /verify-email [get]
func (c *VerificationController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		helpers.WriteJSONError(w, r, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}
	email, err := c.Service.VerifyEmail(r.Context(), token)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.Logger.InfoContext(r.Context(), "email verified", "email", email)
	helpers.WriteJSONSuccess(w, r, http.StatusOK, EmailVerifiedData{Email: email, Verified: true})
}
