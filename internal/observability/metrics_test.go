package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Recorders(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordHTTPRequest(http.MethodGet, "/protected", http.StatusOK, 10*time.Millisecond)
	m.RecordHTTPRequest(http.MethodGet, "/protected", http.StatusOK, 20*time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/protected", "200")))

	m.RecordTokenVerification("expired")
	m.RecordTokenVerification("ok")
	m.RecordTokenVerification("ok")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenVerificationsTotal.WithLabelValues("expired")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TokenVerificationsTotal.WithLabelValues("ok")))

	m.RecordLogin("success")
	m.RecordLogin("invalid_password")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokensIssuedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("invalid_password")))

	m.RecordRegistration("created")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("created")))

	m.ObservePasswordOp("hash", 200*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.PasswordOpDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RecordTokenVerification("malformed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `authgate_token_verifications_total{result="malformed"} 1`)
}

func TestNewMetrics_PanicsOnDoubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewMetrics(registry)
	assert.Panics(t, func() { NewMetrics(registry) })
}
