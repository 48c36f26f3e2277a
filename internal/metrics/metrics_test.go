package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics("")
	b := NewMetrics("")
	a.TxSent.Inc()
	a.TxSent.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(a.TxSent))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.TxSent))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("vaultium")
	m.HTTPRequests.WithLabelValues("/send", "200").Inc()
	m.RateTicks.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `vaultium_http_requests_total{code="200",route="/send"} 1`), body)
	assert.Contains(t, body, "vaultium_rate_ticks_total 1")
}
