// Package server assembles the HTTP surface of the desktop backend.
//
// Middleware, outermost first:
//   - gin.Recovery
//   - tracing: one span per request, trace ids echoed in headers
//   - monitoring: Prometheus request metrics
//   - CORS for the configured shell origins
//   - per-IP rate limiting, when enabled
//
// Route groups:
//   - /fs: the file tree
//   - /windows: the window registry
//   - /apps: built-ins and plugins
//   - /settings, /users, /notifications
//   - /stream: WebSocket of session events
//   - /metrics, /metrics/json, /health
//
// Example Usage:
//
//	srv := server.NewServer(cfg, logger, metrics, sess, tracer)
//	go srv.Run()
//	...
//	srv.Shutdown(ctx)
package server
