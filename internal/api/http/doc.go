// Package http provides the REST handlers for the terminal.
//
// Endpoints:
//   - GET  /                 service status
//   - GET  /health           session directory, shell mode, runtime info
//   - POST /execute          run a command, returns {output, error, ai_translation}
//   - GET  /metrics/summary  running totals as JSON
//
// Example Usage:
//
//	handlers := http.NewHandlers(dispatcher, state, metrics, cfg.Shell.Mode, logger)
//	router.POST("/execute", handlers.Execute)
package http
