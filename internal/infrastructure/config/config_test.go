package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)

	// Storage config
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/webdesk", cfg.Storage.Path)
	assert.True(t, cfg.Storage.Compress)
	assert.Equal(t, "webdesk", cfg.Storage.Namespace)
	assert.True(t, cfg.Storage.Breaker)
	assert.Equal(t, uint32(5), cfg.Storage.BreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.Storage.BreakerCooldown)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
	assert.Equal(t, 500*time.Millisecond, cfg.Logging.SlowRequest)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.IdleTimeout)

	// Window config
	assert.Equal(t, 640, cfg.Windows.DefaultWidth)
	assert.Equal(t, 420, cfg.Windows.DefaultHeight)

	// Apps config
	assert.Empty(t, cfg.Apps.PluginsDir)

	assert.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                     "9000",
		"HOST":                     "127.0.0.1",
		"CORS_ORIGINS":             "http://localhost:5173,https://desk.example",
		"STORAGE_BACKEND":          "badger",
		"STORAGE_PATH":             "/var/lib/webdesk",
		"STORAGE_COMPRESS":         "false",
		"STORAGE_NAMESPACE":        "alice",
		"STORAGE_BREAKER_COOLDOWN": "5s",
		"LOG_LEVEL":                "debug",
		"LOG_DEV":                  "true",
		"RATE_LIMIT_RPS":           "500",
		"RATE_LIMIT_BURST":         "1000",
		"RATE_LIMIT_ENABLED":       "false",
		"WINDOW_DEFAULT_WIDTH":     "800",
		"WINDOW_DEFAULT_HEIGHT":    "600",
		"PLUGINS_DIR":              "/etc/webdesk/plugins",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, []string{"http://localhost:5173", "https://desk.example"}, cfg.Server.AllowOrigins)

	assert.Equal(t, "badger", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/webdesk", cfg.Storage.Path)
	assert.False(t, cfg.Storage.Compress)
	assert.Equal(t, "alice", cfg.Storage.Namespace)
	assert.Equal(t, 5*time.Second, cfg.Storage.BreakerCooldown)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)

	assert.Equal(t, 800, cfg.Windows.DefaultWidth)
	assert.Equal(t, 600, cfg.Windows.DefaultHeight)

	assert.Equal(t, "/etc/webdesk/plugins", cfg.Apps.PluginsDir)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Defaults still apply
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "memory", cfg.Storage.Backend)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown backend", "STORAGE_BACKEND", "postgres"},
		{"zero width", "WINDOW_DEFAULT_WIDTH", "0"},
		{"negative height", "WINDOW_DEFAULT_HEIGHT", "-10"},
		{"unparsable rps", "RATE_LIMIT_RPS", "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)

			// LoadOrDefault falls back instead of failing
			cfg := LoadOrDefault()
			assert.Equal(t, Default(), cfg)
		})
	}
}
