package helpers

import (
	"encoding/json"
	"net/http"
	"time"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeValidation         = "validation_error"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodePayment            = "payment_error"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeInternalError      = "internal_error"
)

// APIError is the error envelope shared by every endpoint.
// swagger:model APIError
type APIError struct {
	Success   bool     `json:"success"`
	Error     string   `json:"error"`
	Message   string   `json:"message"`
	Fields    []string `json:"fields,omitempty"`
	RequestID string   `json:"requestId"`
	Timestamp string   `json:"timestamp"`
}

// APIResponse is the generic success envelope.
// swagger:model APIResponse
type APIResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	RequestID string `json:"requestId"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode and encodes body.
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSONSuccess encodes an APIResponse carrying data and the request id.
func WriteJSONSuccess(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	WriteJSON(w, statusCode, APIResponse{
		Success:   true,
		Data:      data,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// WriteJSONError encodes an APIError with the given code and message.
func WriteJSONError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	writeError(w, r, statusCode, code, message, nil)
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string, fields []string) {
	WriteJSON(w, statusCode, APIError{
		Success:   false,
		Error:     code,
		Message:   message,
		Fields:    fields,
		RequestID: RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
