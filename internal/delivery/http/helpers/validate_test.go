package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Name string `json:"name"`
}

func (s *sampleRequest) Validate() []string {
	if s.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantCode   string
	}{
		{name: "valid", body: `{"name":"ada"}`, wantOK: true},
		{name: "unknown fields tolerated", body: `{"name":"ada","extra":1}`, wantOK: true},
		{name: "malformed", body: `{"name":`, wantStatus: http.StatusBadRequest, wantCode: ErrCodeBadRequest},
		{name: "fails validation", body: `{}`, wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidation},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`, wantStatus: http.StatusBadRequest, wantCode: ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			var dest sampleRequest

			ok := DecodeAndValidate(w, r, &dest)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "ada", dest.Name)
				return
			}
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"`+tt.wantCode+`"`)
		})
	}
}
