package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCheckout(t *testing.T) {
	before := testutil.ToFloat64(checkoutSessions.WithLabelValues(OutcomeConflict))
	ObserveCheckout(OutcomeConflict, 120*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(checkoutSessions.WithLabelValues(OutcomeConflict)))
}

func TestBestEffortFailure(t *testing.T) {
	before := testutil.ToFloat64(bestEffortFailures.WithLabelValues(StepGroupSync))
	BestEffortFailure(StepGroupSync)
	BestEffortFailure(StepGroupSync)
	assert.Equal(t, before+2, testutil.ToFloat64(bestEffortFailures.WithLabelValues(StepGroupSync)))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RegistrationFinalized("created", "professional", "confirmed")

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, "registrations_finalized_total"))
}
