/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the ptyhub
service, tracking HTTP requests, terminal session lifecycle, terminal
traffic and WebSocket subscribers. Every Metrics value owns a private
registry, so several can coexist in one process.

# Features

- HTTP request metrics (latency, throughput by route template)
- Terminal session metrics (active, created, closed, exited, spawn failures)
- Terminal byte counters (in/out)
- WebSocket connection and message metrics
- Go runtime and process collectors, uptime

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Feed terminal lifecycle events
	manager := terminal.NewManager(sink, terminal.WithRecorder(metrics))

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
