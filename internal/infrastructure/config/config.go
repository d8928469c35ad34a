package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Windows   WindowConfig
	Apps      AppsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// AllowOrigins lists the shell origins permitted by CORS
	AllowOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// StorageConfig selects and tunes the persistence backend.
type StorageConfig struct {
	Backend   string `envconfig:"STORAGE_BACKEND" default:"memory"`
	Path      string `envconfig:"STORAGE_PATH" default:"/tmp/webdesk"`
	Compress  bool   `envconfig:"STORAGE_COMPRESS" default:"true"`
	Namespace string `envconfig:"STORAGE_NAMESPACE" default:"webdesk"`

	// Breaker stops calling a failing backend for BreakerCooldown once
	// BreakerFailures consecutive calls have failed
	Breaker         bool          `envconfig:"STORAGE_BREAKER" default:"true"`
	BreakerFailures uint32        `envconfig:"STORAGE_BREAKER_FAILURES" default:"5"`
	BreakerCooldown time.Duration `envconfig:"STORAGE_BREAKER_COOLDOWN" default:"30s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`

	// SlowRequest logs requests at info once they take this long
	SlowRequest time.Duration `envconfig:"LOG_SLOW_REQUEST" default:"500ms"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int           `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int           `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	IdleTimeout       time.Duration `envconfig:"RATE_LIMIT_IDLE" default:"10m"`
}

// WindowConfig holds the size given to newly launched windows.
type WindowConfig struct {
	DefaultWidth  int `envconfig:"WINDOW_DEFAULT_WIDTH" default:"640"`
	DefaultHeight int `envconfig:"WINDOW_DEFAULT_HEIGHT" default:"420"`
}

// AppsConfig holds application registry configuration.
type AppsConfig struct {
	// PluginsDir is scanned for *.yaml and *.toml plugin manifests at startup
	PluginsDir string `envconfig:"PLUGINS_DIR" default:""`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "badger":
	default:
		return fmt.Errorf("invalid storage backend: %q", c.Storage.Backend)
	}
	if c.Windows.DefaultWidth <= 0 || c.Windows.DefaultHeight <= 0 {
		return fmt.Errorf("invalid default window size: %dx%d", c.Windows.DefaultWidth, c.Windows.DefaultHeight)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8000",
			Host:         "0.0.0.0",
			AllowOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Backend:   "memory",
			Path:      "/tmp/webdesk",
			Compress:  true,
			Namespace: "webdesk",

			Breaker:         true,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
			SlowRequest: 500 * time.Millisecond,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
			IdleTimeout:       10 * time.Minute,
		},
		Windows: WindowConfig{
			DefaultWidth:  640,
			DefaultHeight: 420,
		},
	}
}
