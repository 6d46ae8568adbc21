package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conferenceregistration/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantFields []string
		wantMsg    string
	}{
		{
			name:       "validation error keeps fields",
			err:        fmt.Errorf("checkout: %w", domain.NewMissingFieldsError("email", "fullName")),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
			wantFields: []string{"email", "fullName"},
			wantMsg:    "missing required fields: email, fullName",
		},
		{name: "invalid input", err: domain.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidation},
		{name: "payment conflict", err: fmt.Errorf("create: %w", domain.ErrPaymentConflict), wantStatus: http.StatusConflict, wantCode: ErrCodeConflict},
		{name: "payment unavailable", err: domain.ErrPaymentUnavailable, wantStatus: http.StatusServiceUnavailable, wantCode: ErrCodeServiceUnavailable},
		{
			name:       "provider rejection passes message",
			err:        &domain.ProviderError{Message: "Invalid email address: x"},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodePayment,
			wantMsg:    "Invalid email address: x",
		},
		{name: "unauthorized", err: fmt.Errorf("%w: expired", domain.ErrUnauthorized), wantStatus: http.StatusUnauthorized, wantCode: ErrCodeUnauthorized},
		{name: "not found", err: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: ErrCodeNotFound},
		{name: "duplicate coupon", err: domain.ErrAlreadyExists, wantStatus: http.StatusConflict, wantCode: ErrCodeConflict},
		{name: "duplicate email", err: domain.ErrDuplicateEmail, wantStatus: http.StatusConflict, wantCode: ErrCodeConflict},
		{name: "unclassified", err: errors.New("pq: connection refused"), wantStatus: http.StatusInternalServerError, wantCode: ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/checkout-sessions", nil)
			req = req.WithContext(WithRequestID(req.Context(), "req-9"))
			w := httptest.NewRecorder()

			WriteServiceError(w, req, logger, tt.err)

			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			var body APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error)
			assert.Equal(t, tt.wantFields, body.Fields)
			assert.Equal(t, "req-9", body.RequestID)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Message)
			}
			_, err := time.Parse(time.RFC3339, body.Timestamp)
			assert.NoError(t, err)
		})
	}
}
