// Package middleware provides the HTTP middleware in front of the shell API.
//
// CORS:
//   - CORSConfigFor builds the policy from the configured origins
//   - Trace and ETag headers are exposed to the shell
//   - Credentials are only allowed for explicitly listed origins
//
// Rate Limiting:
//   - Per-IP token buckets kept in a lock-free map
//   - Buckets idle longer than IdleTimeout are evicted
//   - GlobalRateLimit caps the whole server instead
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.CORSConfigFor(cfg.Server.AllowOrigins)))
//	router.Use(middleware.RateLimit(middleware.RateLimitFromConfig(cfg.RateLimit)))
package middleware
