package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dashboard"

// Fetch and refresh outcomes.
const (
	OutcomeCommitted = "committed"
	OutcomeDiscarded = "discarded"
	OutcomeFailed    = "failed"
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	// OutboundRequests counts backend API calls by method and status code.
	OutboundRequests *prometheus.CounterVec
	// OutboundDuration observes backend API latency by method.
	OutboundDuration *prometheus.HistogramVec
	// ShipmentFetches counts shipment list fetches by outcome
	// (committed, discarded, failed).
	ShipmentFetches *prometheus.CounterVec
	// TokenRefreshes counts refresh attempts by outcome (success, failure).
	TokenRefreshes *prometheus.CounterVec
}

// New creates a registry with Go and process collectors plus the dashboard metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		OutboundRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbound_requests_total",
			Help:      "Backend API requests by method and status code.",
		}, []string{"method", "code"}),
		OutboundDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbound_request_duration_seconds",
			Help:      "Backend API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		ShipmentFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shipment_fetches_total",
			Help:      "Shipment list fetches by outcome.",
		}, []string{"outcome"}),
		TokenRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refreshes_total",
			Help:      "Token refresh attempts by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.OutboundRequests, m.OutboundDuration, m.ShipmentFetches, m.TokenRefreshes)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveOutbound records one backend call. code 0 means a transport failure.
func (m *Metrics) ObserveOutbound(method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.OutboundRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.OutboundDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Fetch records a shipment fetch outcome.
func (m *Metrics) Fetch(outcome string) {
	if m == nil {
		return
	}
	m.ShipmentFetches.WithLabelValues(outcome).Inc()
}

// Refresh records a token refresh outcome.
func (m *Metrics) Refresh(outcome string) {
	if m == nil {
		return
	}
	m.TokenRefreshes.WithLabelValues(outcome).Inc()
}
