package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"conferenceregistration/internal/domain"
)

// WriteServiceError maps a service error onto the HTTP error taxonomy: validation
// and provider rejections are 400, conflicts 409, provider outages 503 and
// anything unclassified 500. Only the 500 case is logged at error level.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *domain.ValidationError
	var perr *domain.ProviderError
	switch {
	case errors.As(err, &verr):
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, verr.Message, verr.Fields)
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, domain.ErrPaymentConflict):
		WriteJSONError(w, r, http.StatusConflict, ErrCodeConflict,
			"a checkout for this request is already in progress")
	case errors.Is(err, domain.ErrPaymentUnavailable):
		WriteJSONError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"payment provider is temporarily unavailable, please retry")
	case errors.As(err, &perr):
		WriteJSONError(w, r, http.StatusBadRequest, ErrCodePayment, perr.Message)
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, r, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, r, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"method", r.Method,
			"request_id", RequestIDFromContext(r.Context()),
			"err", err,
		)
		WriteJSONError(w, r, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
	}
}
