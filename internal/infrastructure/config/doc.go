// Package config provides 12-factor configuration management for the desktop backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Storage: persistence backend, data directory, compression, key namespace
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Windows: default size of newly launched windows
//   - Apps: directory of plugin manifests seeded at startup
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - STORAGE_BACKEND, STORAGE_PATH, STORAGE_COMPRESS, STORAGE_NAMESPACE
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - WINDOW_DEFAULT_WIDTH, WINDOW_DEFAULT_HEIGHT
//   - PLUGINS_DIR
package config
