// Package server wires the terminal backend together.
//
// Server Lifecycle:
//  1. Load configuration from defaults, CONFIG_FILE, environment and flags
//  2. Initialize the logger
//  3. Create the session cursor and the shell fallback policy
//  4. Build the dispatcher with its translator, executor and sampler
//  5. Set up middleware and routes
//  6. Serve until a signal triggers a graceful shutdown
//
// Routes:
//   - GET  /, /health
//   - POST /execute
//   - GET  /metrics (Prometheus), /metrics/summary (JSON)
//   - GET  /stream (WebSocket)
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg, nil)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
