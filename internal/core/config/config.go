package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"shipment-dashboard/internal/core/proxy"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the dashboard.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the dashboard listens.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// API holds the backend REST API configuration.
	API APIConfig `mapstructure:",squash"`

	// Session holds the auth cookie configuration.
	Session SessionConfig `mapstructure:",squash"`

	// Shipments holds the shipment list configuration.
	Shipments ShipmentsConfig `mapstructure:",squash"`

	// RedisURL points at the cache backing the user cache and last results.
	// Empty selects the in-process cache.
	RedisURL string `mapstructure:"REDIS_URL"`

	// Proxy holds the optional upstream proxy for outbound traffic.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// APIConfig describes how to reach the backend.
type APIConfig struct {
	// BaseURL is the backend REST API root, e.g. http://localhost:3000.
	BaseURL string `mapstructure:"API_BASE_URL" required:"true"`
	// TimeoutSeconds bounds every outbound request.
	TimeoutSeconds int `mapstructure:"HTTP_TIMEOUT_SECONDS" default:"10"`
	// RateLimit is the sustained outbound requests per second.
	RateLimit float64 `mapstructure:"API_RATE_LIMIT" default:"10"`
	// RateBurst is the outbound burst size.
	RateBurst int `mapstructure:"API_RATE_BURST" default:"20"`
}

// SessionConfig controls token cookies.
type SessionConfig struct {
	// TokenMaxAgeSeconds is the max-age of both token cookies.
	TokenMaxAgeSeconds int `mapstructure:"TOKEN_MAX_AGE_SECONDS" default:"604800"`
	// CookieSecure marks token cookies Secure.
	CookieSecure bool `mapstructure:"COOKIE_SECURE"`
}

// ShipmentsConfig controls the shipment views.
type ShipmentsConfig struct {
	// AccountID is the account whose shipments are listed.
	AccountID string `mapstructure:"ACCOUNT_ID" required:"true"`
	// PayloadURL is the unauthenticated endpoint rendered by the payload table.
	// Empty derives it from API_BASE_URL and ACCOUNT_ID.
	PayloadURL string `mapstructure:"PAYLOAD_URL"`
	// DebounceMillis is the quiet period before text filters apply.
	DebounceMillis int `mapstructure:"FILTER_DEBOUNCE_MS" default:"400"`
	// DisplayTimezone is the zone dates are rendered in.
	DisplayTimezone string `mapstructure:"DISPLAY_TIMEZONE" default:"America/Sao_Paulo"`
	// LastResultTTLSeconds is how long the last good collection is kept per session.
	LastResultTTLSeconds int `mapstructure:"LAST_RESULT_TTL_SECONDS" default:"3600"`
}

// ProxyConfig holds upstream proxy credentials.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED"`
	Host     string `mapstructure:"PROXY_HOST"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// Settings converts the proxy configuration for the transport layer.
func (p ProxyConfig) Settings() proxy.Settings {
	return proxy.Settings{
		Enabled:  p.Enabled,
		Hostname: p.Host,
		Port:     p.Port,
		Username: p.Username,
		Password: p.Password,
	}
}

// Timeout returns the outbound request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// TokenMaxAge returns the token cookie lifetime.
func (s SessionConfig) TokenMaxAge() time.Duration {
	return time.Duration(s.TokenMaxAgeSeconds) * time.Second
}

// Debounce returns the text filter quiet period.
func (s ShipmentsConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

// LastResultTTL returns the retention of the last good collection.
func (s ShipmentsConfig) LastResultTTL() time.Duration {
	return time.Duration(s.LastResultTTLSeconds) * time.Second
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	walkFields(&config, func(field reflect.StructField, _ reflect.Value) error {
		key := field.Tag.Get("mapstructure")
		if key == "" {
			return nil
		}
		v.BindEnv(key)
		if def := field.Tag.Get("default"); def != "" {
			v.SetDefault(key, def)
		}
		return nil
	})

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// walkFields visits every leaf field, descending into nested structs.
func walkFields(config interface{}, visit func(reflect.StructField, reflect.Value) error) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := walkFields(val.Field(i).Addr().Interface(), visit); err != nil {
				return err
			}
			continue
		}

		if err := visit(field, val.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	return walkFields(config, func(field reflect.StructField, value reflect.Value) error {
		if field.Tag.Get("required") == "true" && isZero(value) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
		return nil
	})
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	default:
		return v.IsZero()
	}
}
