/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the desktop
backend, tracking HTTP requests, file system operations, window lifecycle,
storage calls, and WebSocket connections. Every collector owns a private
registry, so tests can build as many as they like.

# Features

- HTTP request metrics (latency, throughput, size)
- File system metrics (operations by outcome, tree size, persist failures)
- Window metrics (open windows, operations by kind)
- Storage adapter metrics (calls, duration)
- Plugin and notification counters
- WebSocket connection metrics
- Process and Go runtime collectors, uptime

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record custom metrics
	metrics.SetWindowsOpen(3)
	metrics.RecordVFSOperation("create", "success")

	// Time storage calls
	timer := monitoring.NewTimer(metrics, "badger", "set")
	err := db.Update(...)
	timer.Stop(err)

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
