// Package main is the entry point for the webterm backend.
//
// The server exposes a single shared terminal session over HTTP and
// WebSocket. Commands are dispatched to built-ins, a small natural-language
// file action translator, or the host shell.
//
// Configuration:
//   - Defaults, then CONFIG_FILE (YAML), then environment variables
//   - CLI flags override all of them
//
// Usage:
//
//	# Listen on 8000 with shell fallback restricted to ls and git
//	SHELL_ALLOWLIST=ls,git ./server -port 8000 -shell-mode allowlist
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
