package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"conferenceregistration/internal/delivery/http/helpers"
	"conferenceregistration/internal/domain"
)

type AdminController struct {
	Logger        *slog.Logger
	Auth          domain.AdminAuthService
	Registrations domain.RegistrationService
}

func NewAdminController(logger *slog.Logger, auth domain.AdminAuthService, registrations domain.RegistrationService) *AdminController {
	return &AdminController{
		Logger:        logger,
		Auth:          auth,
		Registrations: registrations,
	}
}

// AdminLoginRequest is the request body for POST /admin/login.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements helpers.Validator.
func (r *AdminLoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// AdminLoginData carries the issued bearer token.
type AdminLoginData struct {
	Token string `json:"token"`
}

// AdminLoginSuccessResponse is the success envelope for POST /admin/login (200).
type AdminLoginSuccessResponse struct {
	Success   bool           `json:"success"`
	Data      AdminLoginData `json:"data"`
	RequestID string         `json:"requestId"`
}

// Login godoc
// @Summary Admin login
// @Description Exchanges the administrator credentials for a bearer token with the admin scope.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body controllers.AdminLoginRequest true "Credentials"
// @Success 200 {object} controllers.AdminLoginSuccessResponse
// @Failure 400 {object} helpers.APIError "error: validation_error"
// @Failure 401 {object} helpers.APIError "error: unauthorized"
// @Failure 500 {object} helpers.APIError "error: internal_error"
// @Router /admin/login [post]
func (c *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, r, http.StatusOK, AdminLoginData{Token: token})
}

// ListRegistrationsData is the data payload of GET /admin/registrations.
type ListRegistrationsData struct {
	Items      []*domain.Registration `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListRegistrationsSuccessResponse is the success envelope for GET /admin/registrations (200).
type ListRegistrationsSuccessResponse struct {
	Success   bool                  `json:"success"`
	Data      ListRegistrationsData `json:"data"`
	RequestID string                `json:"requestId"`
}

// ListRegistrations godoc
// @Summary List registrations
// @Description Newest first.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListRegistrationsSuccessResponse
// @Failure 401 {object} helpers.APIError "error: unauthorized"
// @Failure 500 {object} helpers.APIError "error: internal_error"
// @Router /admin/registrations [get]
func (c *AdminController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	regs, total, err := c.Registrations.List(r.Context(), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	helpers.WriteJSONSuccess(w, r, http.StatusOK, ListRegistrationsData{
		Items:      regs,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// RegistrationDetailsSuccessResponse is the success envelope for GET /admin/registrations/{email} (200).
type RegistrationDetailsSuccessResponse struct {
	Success   bool                        `json:"success"`
	Data      *domain.RegistrationDetails `json:"data"`
	RequestID string                      `json:"requestId"`
}

// GetRegistration godoc
// @Summary Get one registration
// @Description Includes the group and its members when the registrant leads a group.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param email path string true "Registrant email"
// @Success 200 {object} controllers.RegistrationDetailsSuccessResponse
// @Failure 400 {object} helpers.APIError "error: bad_request"
// @Failure 401 {object} helpers.APIError "error: unauthorized"
// @Failure 404 {object} helpers.APIError "error: not_found"
// @Failure 500 {object} helpers.APIError "error: internal_error"
// @Router /admin/registrations/{email} [get]
func (c *AdminController) GetRegistration(w http.ResponseWriter, r *http.Request) {
	email := domain.NormalizeEmail(r.PathValue("email"))
	if !strings.Contains(email, "@") {
		helpers.WriteJSONError(w, r, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid email")
		return
	}
	details, err := c.Registrations.GetDetails(r.Context(), email)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, r, http.StatusOK, details)
}
