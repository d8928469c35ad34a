// Package main is the entry point for the WebDesk backend.
//
// The server owns one desktop session: the file tree, the open windows,
// the app catalog, settings and user profiles. The browser shell talks to
// it over REST and receives change events on the /stream WebSocket.
//
// Configuration:
//   - Environment variables (12-factor), see internal/infrastructure/config
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Production mode, badger storage
//	STORAGE_BACKEND=badger STORAGE_PATH=./data ./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
