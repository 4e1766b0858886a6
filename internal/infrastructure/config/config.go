package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. AUTOMATION_ERP_BASE_URL
const EnvPrefix = "AUTOMATION"

// Config holds all application configuration
type Config struct {
	App       AppConfig
	ERP       ERPConfig
	OAuth     OAuthConfig
	Host      HostConfig
	Webhook   WebhookConfig
	Redis     RedisConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Telemetry TelemetryConfig
	Profiler  ProfilerConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Version string
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// ERPConfig points at the ERP backend API
type ERPConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// OAuthConfig holds the OAuth2 client registered at the ERP backend
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	StateTTL     time.Duration
}

// HostConfig authenticates the automation platform calling this service
type HostConfig struct {
	JWTSecret string
	Issuer    string
	Audience  string
	TokenTTL  time.Duration
}

// WebhookConfig holds settings for payloads pushed by the backend
type WebhookConfig struct {
	Secret string
}

// RedisConfig holds Redis connection settings for the authorization state store
type RedisConfig struct {
	Enabled       bool
	Host          string
	Port          int
	Password      string
	DB            int
	KeyPrefix     string
	AllowFallback bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string

	// InfoAllowedIPs restricts /api/v1/system/info; empty allows everyone
	InfoAllowedIPs []string
	// DocsEnabled serves the OpenAPI document and UI under /swagger. It
	// defaults to on outside production.
	DocsEnabled bool
	// DocsAllowedIPs restricts /swagger; empty allows everyone
	DocsAllowedIPs []string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string // OTLP gRPC endpoint, e.g. "localhost:4317"
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool // plaintext gRPC, development only
	MetricsInterval   time.Duration
	LogsEnabled       bool
}

// ProfilerConfig holds Pyroscope continuous profiling configuration
type ProfilerConfig struct {
	Enabled           bool
	ServerAddress     string
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string
	ProfileTypes      []string
}

// Load loads configuration from config.toml in the usual locations and the
// environment. Priority (highest to lowest):
// 1. Environment variables with AUTOMATION_ prefix (e.g. AUTOMATION_OAUTH_CLIENT_SECRET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// default locations and tolerates a missing file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/erp-automation")
		v.AddConfigPath("/app")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			Version: v.GetString("app.version"),
		},
		ERP: ERPConfig{
			BaseURL:   v.GetString("erp.base_url"),
			Timeout:   v.GetDuration("erp.timeout"),
			UserAgent: v.GetString("erp.user_agent"),
		},
		OAuth: OAuthConfig{
			ClientID:     v.GetString("oauth.client_id"),
			ClientSecret: v.GetString("oauth.client_secret"),
			RedirectURI:  v.GetString("oauth.redirect_uri"),
			Scopes:       v.GetStringSlice("oauth.scopes"),
			StateTTL:     v.GetDuration("oauth.state_ttl"),
		},
		Host: HostConfig{
			JWTSecret: v.GetString("host.jwt_secret"),
			Issuer:    v.GetString("host.issuer"),
			Audience:  v.GetString("host.audience"),
			TokenTTL:  v.GetDuration("host.token_ttl"),
		},
		Webhook: WebhookConfig{
			Secret: v.GetString("webhook.secret"),
		},
		Redis: RedisConfig{
			Enabled:       v.GetBool("redis.enabled"),
			Host:          v.GetString("redis.host"),
			Port:          v.GetInt("redis.port"),
			Password:      v.GetString("redis.password"),
			DB:            v.GetInt("redis.db"),
			KeyPrefix:     v.GetString("redis.key_prefix"),
			AllowFallback: !v.IsSet("redis.allow_fallback") || v.GetBool("redis.allow_fallback"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
			InfoAllowedIPs:    v.GetStringSlice("http.info_allowed_ips"),
			DocsEnabled:       v.GetBool("http.docs_enabled") || (!v.IsSet("http.docs_enabled") && v.GetString("app.env") != "production"),
			DocsAllowedIPs:    v.GetStringSlice("http.docs_allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
		},
		Profiler: ProfilerConfig{
			Enabled:           v.GetBool("profiler.enabled"),
			ServerAddress:     v.GetString("profiler.server_address"),
			ApplicationName:   v.GetString("profiler.application_name"),
			BasicAuthUser:     v.GetString("profiler.basic_auth_user"),
			BasicAuthPassword: v.GetString("profiler.basic_auth_password"),
			ProfileTypes:      v.GetStringSlice("profiler.profile_types"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "erp-automation"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "dev"
	}
	if cfg.ERP.BaseURL == "" {
		cfg.ERP.BaseURL = "http://localhost:3000"
	}
	cfg.ERP.BaseURL = strings.TrimRight(cfg.ERP.BaseURL, "/")
	if cfg.ERP.Timeout == 0 {
		cfg.ERP.Timeout = 30 * time.Second
	}
	if cfg.ERP.UserAgent == "" {
		cfg.ERP.UserAgent = cfg.App.Name + "/" + cfg.App.Version
	}
	if cfg.OAuth.StateTTL == 0 {
		cfg.OAuth.StateTTL = 10 * time.Minute
	}
	if cfg.Host.Issuer == "" {
		cfg.Host.Issuer = "erp-automation"
	}
	if cfg.Host.Audience == "" {
		cfg.Host.Audience = "erp-automation"
	}
	if cfg.Host.TokenTTL == 0 {
		cfg.Host.TokenTTL = time.Hour
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "automation:oauth:state:"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// must outlast a backend call
		cfg.HTTP.WriteTimeout = cfg.ERP.Timeout + 15*time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 5 << 20 // 5MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 600
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// No default CORS origins: an empty list rejects cross-origin requests.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Webhook-Signature"}
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 30 * time.Second
	}
	if cfg.Profiler.ServerAddress == "" {
		cfg.Profiler.ServerAddress = "http://localhost:4040"
	}
	if cfg.Profiler.ApplicationName == "" {
		cfg.Profiler.ApplicationName = cfg.App.Name
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	base, err := url.Parse(c.ERP.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("erp.base_url must be an absolute URL, got %q", c.ERP.BaseURL)
	}
	if c.ERP.Timeout < 0 {
		return fmt.Errorf("erp.timeout cannot be negative")
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.HTTP.RateLimitRequests < 0 {
		return fmt.Errorf("http.rate_limit_requests cannot be negative")
	}

	if c.App.IsProduction() {
		if base.Scheme != "https" {
			return fmt.Errorf("erp.base_url must use https in production")
		}
		if c.OAuth.ClientID == "" || c.OAuth.ClientSecret == "" {
			return fmt.Errorf("oauth.client_id and oauth.client_secret are required in production")
		}
		if c.Host.JWTSecret == "" {
			return fmt.Errorf("host.jwt_secret is required in production")
		}
		if len(c.Host.JWTSecret) < 32 {
			return fmt.Errorf("host.jwt_secret must be at least 32 characters in production")
		}
		if slices.Contains(c.HTTP.CORSAllowOrigins, "*") {
			return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
		}
		if c.Telemetry.Enabled && c.Telemetry.Insecure {
			return fmt.Errorf("telemetry.insecure must be false in production")
		}
	}

	return nil
}

// Addr returns the Redis address
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
