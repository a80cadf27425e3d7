package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := New(func() int { return 3 })
	m.ObserveSubmission("success", 10*time.Millisecond)
	m.ObserveSubmission("success", 10*time.Millisecond)
	m.ObserveSubmission("validation_error", 0)
	m.ObservePDF("success", time.Second)
	m.ObserveNotification("webhook", "error")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("validation_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("webhook", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeSessions))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveSubmission("success", 0)
	m.ObservePDF("success", 0)
	m.ObserveNotification("mqtt", "ok")
}

func TestMetrics_Handler(t *testing.T) {
	m := New(nil)
	m.ObserveSubmission("success", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `intake_submissions_total{result="success"} 1`)
}
