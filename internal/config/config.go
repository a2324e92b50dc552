// Package config loads camara-proxy configuration from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/politicosbr/camara-client/pkg/logging"
)

// EnvPrefix prefixes every environment override, e.g. CAMARA_UPSTREAM_TIMEOUT.
const EnvPrefix = "CAMARA"

// Config holds all proxy configuration.
type Config struct {
	Upstream  UpstreamConfig
	Cache     CacheConfig
	Server    ServerConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// UpstreamConfig holds settings for the open-data API.
type UpstreamConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables the limit
	Burst     int
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	DefaultTTL    time.Duration
	SweepInterval time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Pretty bool
}

// TelemetryConfig holds tracing settings. An empty endpoint disables export.
type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration.
// Priority (highest to lowest):
// 1. Environment variables with CAMARA_ prefix (e.g., CAMARA_SERVER_PORT)
// 2. camara.yaml in the working directory or /etc/camara
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("camara")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/camara")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return load(v)
}

// load builds a Config from an already prepared viper instance.
func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Upstream: UpstreamConfig{
			BaseURL:   v.GetString("upstream.base_url"),
			UserAgent: v.GetString("upstream.user_agent"),
			Timeout:   v.GetDuration("upstream.timeout"),
			RateLimit: v.GetFloat64("upstream.rate_limit"),
			Burst:     v.GetInt("upstream.burst"),
		},
		Cache: CacheConfig{
			DefaultTTL:    v.GetDuration("cache.default_ttl"),
			SweepInterval: v.GetDuration("cache.sweep_interval"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: v.GetString("telemetry.otlp_endpoint"),
			ServiceName:  v.GetString("telemetry.service_name"),
		},
	}

	// sweep interval follows the TTL unless set explicitly
	if cfg.Cache.SweepInterval == 0 {
		cfg.Cache.SweepInterval = cfg.Cache.DefaultTTL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("upstream.base_url", "https://dadosabertos.camara.leg.br/api/v2")
	v.SetDefault("upstream.user_agent", "camara-client/1.0 (+https://github.com/politicosbr/camara-client)")
	v.SetDefault("upstream.timeout", 10*time.Second)
	v.SetDefault("upstream.rate_limit", 10.0)
	v.SetDefault("upstream.burst", 5)
	v.SetDefault("cache.default_ttl", 5*time.Minute)
	v.SetDefault("cache.sweep_interval", 0)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.service_name", "camara-proxy")
}

// Validate checks the configuration for values the proxy cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Upstream.BaseURL == "" {
		errs = append(errs, errors.New("upstream.base_url is required"))
	} else if u, err := url.Parse(c.Upstream.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("upstream.base_url is not an absolute url: %q", c.Upstream.BaseURL))
	}
	if c.Upstream.UserAgent == "" {
		errs = append(errs, errors.New("upstream.user_agent is required"))
	}
	if c.Upstream.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("upstream.timeout must be positive (got %s)", c.Upstream.Timeout))
	}
	if c.Upstream.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("upstream.rate_limit must not be negative (got %g)", c.Upstream.RateLimit))
	}
	if c.Upstream.Burst < 0 {
		errs = append(errs, fmt.Errorf("upstream.burst must not be negative (got %d)", c.Upstream.Burst))
	}
	if c.Cache.DefaultTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.default_ttl must be positive (got %s)", c.Cache.DefaultTTL))
	}
	if c.Cache.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("cache.sweep_interval must be positive (got %s)", c.Cache.SweepInterval))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout must be positive (got %s)", c.Server.ShutdownTimeout))
	}
	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
