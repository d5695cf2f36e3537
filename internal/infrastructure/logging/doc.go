// Package logging provides structured logging using uber/zap.
//
// Two output modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Every dispatched command is logged with its command ID, kind and
// duration, and HTTP requests carry the trace ID from the tracing
// middleware, so one request can be followed end to end.
//
// Example Usage:
//
//	logger := logging.FromConfig(cfg.Logging)
//	logger.Info("Server starting", zap.String("port", "8080"))
//	logger.Error("Command failed", zap.Error(err))
package logging
