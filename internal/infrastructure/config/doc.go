// Package config provides 12-factor configuration management for the
// terminal backend.
//
// Configuration is layered: built-in defaults, an optional YAML file named by
// CONFIG_FILE, then environment variables. CLI flags in cmd/server override
// all three.
//
// Configuration Sections:
//   - Server: HTTP listen address (port, host)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting
//   - Shell: Shell fallback mode, binary, allow-list, timeout, PTY
//   - Session: Initial working directory
//   - Sysinfo: CPU sampling window
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("listening on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - SHELL_MODE, SHELL_BINARY, SHELL_ALLOWLIST, SHELL_TIMEOUT, SHELL_PTY
//   - SESSION_START_DIR
//   - SYSINFO_SAMPLE_INTERVAL
//   - CONFIG_FILE
package config
