package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/core/metrics"
	"shipment-dashboard/internal/core/proxy"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TokenSource returns the bearer token for the request context, or "".
type TokenSource func(ctx context.Context) string

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// AuthRoundTripper attaches "Authorization: Bearer <token>" when the token
// source yields a non-empty token. An explicit Authorization header wins.
type AuthRoundTripper struct {
	Proxied http.RoundTripper
	Tokens  TokenSource
}

// RoundTrip implements http.RoundTripper.
func (art *AuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if art.Tokens != nil && req.Header.Get("Authorization") == "" {
		if token := art.Tokens(req.Context()); token != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return art.Proxied.RoundTrip(req)
}

// RateLimitRoundTripper waits for a token-bucket slot before each request.
type RateLimitRoundTripper struct {
	Proxied http.RoundTripper
	Limiter *rate.Limiter
}

// RoundTrip implements http.RoundTripper.
func (rrt *RateLimitRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := rrt.Limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return rrt.Proxied.RoundTrip(req)
}

// MetricsRoundTripper records outbound calls.
type MetricsRoundTripper struct {
	Proxied http.RoundTripper
	Metrics *metrics.Metrics
}

// RoundTrip implements http.RoundTripper.
func (mrt *MetricsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := mrt.Proxied.RoundTrip(req)
	code := 0
	if err == nil {
		code = resp.StatusCode
	}
	mrt.Metrics.ObserveOutbound(req.Method, code, time.Since(start))
	return resp, err
}

type options struct {
	tokens  TokenSource
	limiter *rate.Limiter
	metrics *metrics.Metrics
	proxy   proxy.Settings
}

// Option configures NewClient.
type Option func(*options)

// WithTokenSource attaches bearer tokens to every request.
func WithTokenSource(src TokenSource) Option {
	return func(o *options) { o.tokens = src }
}

// WithRateLimit caps outbound requests per second. rps <= 0 disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records outbound requests.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithProxy routes requests through an upstream proxy.
func WithProxy(s proxy.Settings) Option {
	return func(o *options) { o.proxy = s }
}

// NewClient returns an http.Client with logging middleware and the
// requested authorization, rate limiting, metrics and proxy layers.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.Proxy = o.proxy.ProxyFunc()

	var rt http.RoundTripper = base
	if o.tokens != nil {
		rt = &AuthRoundTripper{Proxied: rt, Tokens: o.tokens}
	}
	if o.limiter != nil {
		rt = &RateLimitRoundTripper{Proxied: rt, Limiter: o.limiter}
	}
	if o.metrics != nil {
		rt = &MetricsRoundTripper{Proxied: rt, Metrics: o.metrics}
	}

	return &http.Client{
		Transport: &LoggingRoundTripper{Proxied: rt},
		Timeout:   timeout,
	}
}
