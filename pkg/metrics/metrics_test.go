package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordOperation(t *testing.T) {
	m := New()
	m.RecordOperation(OpRefresh, ResultOK)
	m.RecordOperation(OpRefresh, ResultOK)
	m.RecordOperation(OpReauth, ResultThrottled)

	body := getMetricsBody(t, m)
	assert.Contains(t, body, `keeper_operations_total{op="refresh",result="ok"} 2`)
	assert.Contains(t, body, `keeper_operations_total{op="reauth",result="throttled"} 1`)
}

func TestMetrics_RecordStoreError(t *testing.T) {
	m := New()
	m.RecordStoreError("save")

	body := getMetricsBody(t, m)
	assert.Contains(t, body, `keeper_store_errors_total{op="save"} 1`)
}

func TestMetrics_ObserveDuration(t *testing.T) {
	m := New()
	m.ObserveDuration(OpLogin, 250*time.Millisecond)

	body := getMetricsBody(t, m)
	assert.Contains(t, body, `keeper_operation_duration_seconds_count{op="login"} 1`)
}

func TestMetrics_SetAccessTokenExpiry(t *testing.T) {
	m := New()
	m.SetAccessTokenExpiry(time.Unix(1700000000, 0))
	assert.Contains(t, getMetricsBody(t, m), "keeper_access_token_expiry_timestamp_seconds 1.7e+09")

	m.SetAccessTokenExpiry(time.Time{})
	assert.Contains(t, getMetricsBody(t, m), "keeper_access_token_expiry_timestamp_seconds 0")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordOperation(OpLogin, ResultFailed)
		m.RecordStoreError("load")
		m.ObserveDuration(OpLogin, time.Second)
		m.SetAccessTokenExpiry(time.Now())
	})

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func getMetricsBody(t *testing.T, m *Metrics) string {
	t.Helper()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	return string(body)
}
