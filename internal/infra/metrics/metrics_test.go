package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_AuthAttempt(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.AuthAttempt(OpLogin, true)
	m.AuthAttempt(OpLogin, false)
	m.AuthAttempt(OpLogin, false)

	assert.InDelta(t, 1, testutil.ToFloat64(m.AuthAttempts().WithLabelValues(OpLogin, ResultSuccess)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.AuthAttempts().WithLabelValues(OpLogin, ResultFailure)), 0)
}

func TestMetrics_IntegrityCorruption(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IntegrityCorruption()

	assert.InDelta(t, 1, testutil.ToFloat64(m.IntegrityFailures()), 0)
}

func TestMetrics_ObserveHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTP("/api/tasks", http.MethodGet, http.StatusOK, 20*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, family := range families {
		names[family.GetName()] = true
	}
	assert.True(t, names["taskhub_http_requests_total"])
	assert.True(t, names["taskhub_http_request_duration_seconds"])
}
