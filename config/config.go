package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultGoomWebhookURL is the Goom project webhook endpoint quotes are validated against.
const DefaultGoomWebhookURL = "https://voltalia.pixlebiz.com/custom/goom/api/project_webhook.php"

// DefaultGoomTimeoutMs is used when GOOM_TIMEOUT is unset, unparsable or not positive.
const DefaultGoomTimeoutMs = 30000

// Config holds all application configuration.
// It is built once at startup and never mutated afterwards.
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Goom          GoomConfig
	Airtable      AirtableConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// GoomConfig describes the outbound validation gateway.
type GoomConfig struct {
	WebhookURL            string
	GatewayToken          string
	TimeoutMs             int
	CircuitBreakerEnabled bool
}

// AirtableConfig describes the inbound notification source.
type AirtableConfig struct {
	WebhookSecret string // Optional: when empty every notification is accepted
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint string
	ServiceName      string
	ServiceVersion   string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "3000")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("NODE_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "*")
	v.SetDefault("MAX_BODY_BYTES", 10*1024*1024) // 10mb
	v.SetDefault("GOOM_WEBHOOK_URL", DefaultGoomWebhookURL)
	v.SetDefault("GOOM_TIMEOUT", DefaultGoomTimeoutMs)
	v.SetDefault("GOOM_CIRCUIT_BREAKER_ENABLED", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "goom-relay")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "goom-relay")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	appEnv := v.GetString("APP_ENV")
	if appEnv == "" {
		appEnv = v.GetString("NODE_ENV")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         appEnv,
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
			MaxBodyBytes:   v.GetInt64("MAX_BODY_BYTES"),
		},
		Goom: GoomConfig{
			WebhookURL:            v.GetString("GOOM_WEBHOOK_URL"),
			GatewayToken:          v.GetString("GOOM_GATEWAY_TOKEN"),
			TimeoutMs:             parseTimeout(v.GetString("GOOM_TIMEOUT")),
			CircuitBreakerEnabled: v.GetBool("GOOM_CIRCUIT_BREAKER_ENABLED"),
		},
		Airtable: AirtableConfig{
			WebhookSecret: v.GetString("AIRTABLE_WEBHOOK_SECRET"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint: v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:      v.GetString("O11Y_SERVICE_NAME"),
			ServiceVersion:   v.GetString("O11Y_SERVICE_VERSION"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set.
// A missing GOOM_GATEWAY_TOKEN is not an error: the health
// endpoint reports it and the webhook route refuses to forward without it.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Goom.WebhookURL == "" {
		return fmt.Errorf("GOOM_WEBHOOK_URL must not be empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// GoomConfigured reports whether a gateway token is available for forwarding.
func (c *Config) GoomConfigured() bool {
	return c.Goom.GatewayToken != ""
}

// Timeout returns the per-forward deadline.
func (g GoomConfig) Timeout() time.Duration {
	if g.TimeoutMs <= 0 {
		return DefaultGoomTimeoutMs * time.Millisecond
	}
	return time.Duration(g.TimeoutMs) * time.Millisecond
}

// parseTimeout mirrors an integer parse with fallback: leading digits are
// honoured ("1500ms" -> 1500) and anything unusable yields the default.
func parseTimeout(raw string) int {
	raw = strings.TrimSpace(raw)
	n := 0
	digits := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
		if n > 1<<30 {
			break
		}
	}
	if digits == 0 || n <= 0 {
		return DefaultGoomTimeoutMs
	}
	return n
}

func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
