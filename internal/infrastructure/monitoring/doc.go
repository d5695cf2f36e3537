/*
Package monitoring provides Prometheus metrics for the terminal backend.

# Overview

Metrics live on a private registry owned by each Metrics value, so tests
can build as many servers as they like without duplicate-registration
panics.

# Features

- HTTP request metrics (latency, throughput, size) per route template
- Command metrics by kind (builtin, ai, shell, empty) and outcome
- Natural-language translation outcomes and filesystem action outcomes
- WebSocket connection and message counters
- Go runtime, process and uptime metrics

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "shell")
	// ... run the command ...
	timer.Stop("ok")
*/
package monitoring
