package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"shipment-dashboard/internal/core/cache"
	"shipment-dashboard/internal/core/config"
	"shipment-dashboard/internal/core/httpclient"
	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/core/metrics"
	"shipment-dashboard/internal/core/session"
	authadapter "shipment-dashboard/internal/features/auth/adapters"
	authdomain "shipment-dashboard/internal/features/auth/domain"
	authservice "shipment-dashboard/internal/features/auth/service"
	shipmentadapter "shipment-dashboard/internal/features/shipments/adapters"
	"shipment-dashboard/internal/features/shipments/grid"
	shipmentservice "shipment-dashboard/internal/features/shipments/service"

	"go.uber.org/zap"
)

// cachePrefix namespaces every dashboard key in Redis.
const cachePrefix = "dashboard:"

// app holds the components shared by every subcommand.
type app struct {
	cfg       *config.AppConfig
	metrics   *metrics.Metrics
	cache     cache.Cache
	auth      *authservice.AuthService
	shipments *shipmentservice.ShipmentService
	payload   *shipmentservice.PayloadService
	formatter *grid.Formatter
}

// loadConfig reads the configuration and initializes the global logger.
func loadConfig(logOutput ...string) (*config.AppConfig, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.Environment, cfg.LogLevel, logOutput...); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, nil
}

// newApp wires cache, HTTP clients, adapters and services.
func newApp(cfg *config.AppConfig) (*app, error) {
	l := logger.Get()
	m := metrics.New()

	var c cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.RedisURL, cachePrefix)
		if err != nil {
			return nil, err
		}
		c = redisCache
		l.Info("Using Redis cache")
	} else {
		c = cache.NewMemoryAdapter()
		l.Info("Using in-process cache")
	}

	api := httpclient.NewAPI(cfg.API.BaseURL, httpclient.NewClient(cfg.API.Timeout(),
		httpclient.WithTokenSource(session.AccessTokenFrom),
		httpclient.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
		httpclient.WithMetrics(m),
		httpclient.WithProxy(cfg.Proxy.Settings()),
	))

	shipmentAPI := shipmentadapter.NewShipmentAPIAdapter(api, cfg.Shipments.AccountID)

	payloadURL := cfg.Shipments.PayloadURL
	if payloadURL == "" {
		payloadURL = strings.TrimRight(cfg.API.BaseURL, "/") + shipmentAPI.Path()
	}
	payloadClient := httpclient.NewClient(cfg.API.Timeout(),
		httpclient.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
		httpclient.WithMetrics(m),
		httpclient.WithProxy(cfg.Proxy.Settings()),
	)

	formatter := grid.LoadFormatter(cfg.Shipments.DisplayTimezone)

	return &app{
		cfg:     cfg,
		metrics: m,
		cache:   c,
		auth: authservice.NewAuthService(
			authadapter.NewAuthAPIAdapter(api),
			authadapter.NewCacheUserStore(c, cfg.Session.TokenMaxAge()),
			m,
		),
		shipments: shipmentservice.NewShipmentService(
			shipmentAPI,
			shipmentadapter.NewCacheLastResultStore(c, cfg.Shipments.LastResultTTL()),
			m,
		),
		payload:   shipmentservice.NewPayloadService(shipmentadapter.NewPayloadAdapter(payloadURL, payloadClient)),
		formatter: formatter,
	}, nil
}

// Close releases the cache connection.
func (a *app) Close() {
	if err := a.cache.Close(); err != nil {
		logger.Get().Warn("Failed to close cache", zap.Error(err))
	}
}

// credentials selects how a terminal command authenticates.
type credentials struct {
	email        string
	password     string
	accessToken  string
	refreshToken string
}

// signIn returns a session store for the terminal commands: raw tokens are
// used as given, otherwise email and password are exchanged for tokens.
func (a *app) signIn(ctx context.Context, cred credentials) (session.Store, error) {
	store := session.NewMemoryStore(cred.accessToken, cred.refreshToken)
	if cred.accessToken != "" || cred.refreshToken != "" {
		return store, nil
	}
	if cred.email == "" || cred.password == "" {
		return nil, fmt.Errorf("either --token or --email and --password are required")
	}
	user, err := a.auth.Login(ctx, store, authdomain.LoginRequest{Email: cred.email, Password: cred.password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %s", httpclient.Message(err, err.Error()))
	}
	logger.Get().Info("Signed in", zap.String("email", user.Email))
	return store, nil
}

// filterLocation builds /shipments?… from the filter flags and the raw location flag.
func filterLocation(location string, values map[string]string) (*url.URL, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", location, err)
	}
	if u.Path == "" {
		u.Path = "/shipments"
	}
	q := u.Query()
	for k, v := range values {
		if v != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u, nil
}

func isUnauthorized(err error) bool {
	return httpclient.IsStatus(err, http.StatusUnauthorized)
}
