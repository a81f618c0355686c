package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/core/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggingRoundTripper verifies that requests are logged.
func TestLoggingRoundTripper(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	logger.Init("development", "debug")

	client := NewClient(1 * time.Second)
	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestLoggingRoundTripper_Error verifies that failed requests are logged.
func TestLoggingRoundTripper_Error(t *testing.T) {
	logger.Init("development", "debug")

	client := NewClient(1 * time.Second)
	_, err := client.Get("http://invalid-url-that-does-not-exist.local")
	require.Error(t, err)
}

// TestAuthRoundTripper verifies the bearer token is attached only when present.
func TestAuthRoundTripper(t *testing.T) {
	var got []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	token := ""
	client := NewClient(time.Second, WithTokenSource(func(ctx context.Context) string { return token }))

	_, err := client.Get(ts.URL)
	require.NoError(t, err)

	token = "abc.def"
	_, err = client.Get(ts.URL)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer abc.def"}, got)
}

// TestRateLimitRoundTripper_ContextCancelled verifies waiting honours the context.
func TestRateLimitRoundTripper_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewClient(time.Second, WithRateLimit(0.001, 1))

	_, err := client.Get(ts.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", ts.URL, nil)
	_, err = client.Do(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}

// TestMetricsRoundTripper verifies outbound calls are counted.
func TestMetricsRoundTripper(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer ts.Close()

	m := metrics.New()
	client := NewClient(time.Second, WithMetrics(m))

	_, err := client.Get(ts.URL)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboundRequests.WithLabelValues("GET", "418")))
}
