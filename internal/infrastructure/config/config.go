package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Shell fallback modes
const (
	ShellModeShell     = "shell"
	ShellModeAllowlist = "allowlist"
	ShellModeDisabled  = "disabled"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Shell     ShellConfig     `yaml:"shell"`
	Session   SessionConfig   `yaml:"session"`
	Sysinfo   SysinfoConfig   `yaml:"sysinfo"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" yaml:"port"`
	Host string `envconfig:"HOST" yaml:"host"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled"`
}

// ShellConfig controls the shell fallback trust boundary.
type ShellConfig struct {
	// Mode is one of shell, allowlist or disabled.
	Mode      string        `envconfig:"SHELL_MODE" yaml:"mode"`
	Binary    string        `envconfig:"SHELL_BINARY" yaml:"binary"`
	Allowlist []string      `envconfig:"SHELL_ALLOWLIST" yaml:"allowlist"`
	Timeout   time.Duration `envconfig:"SHELL_TIMEOUT" yaml:"timeout"`
	PTY       bool          `envconfig:"SHELL_PTY" yaml:"pty"`
}

// SessionConfig holds working-directory cursor settings.
type SessionConfig struct {
	// StartDir overrides the launch directory as the initial cursor.
	StartDir string `envconfig:"SESSION_START_DIR" yaml:"start_dir"`
}

// SysinfoConfig holds sysinfo sampling settings.
type SysinfoConfig struct {
	SampleInterval time.Duration `envconfig:"SYSINFO_SAMPLE_INTERVAL" yaml:"sample_interval"`
}

// Load builds configuration in three layers: Default, then the YAML file
// named by CONFIG_FILE (if any), then environment variables. No envconfig
// default tags are used so the file layer is not clobbered.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Shell: ShellConfig{
			Mode:   ShellModeShell,
			Binary: "/bin/sh",
		},
		Sysinfo: SysinfoConfig{
			SampleInterval: time.Second,
		},
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Shell.Mode {
	case ShellModeShell, ShellModeAllowlist, ShellModeDisabled:
	default:
		return fmt.Errorf("invalid SHELL_MODE %q", c.Shell.Mode)
	}
	if c.Shell.Mode == ShellModeAllowlist && len(c.Shell.Allowlist) == 0 {
		return fmt.Errorf("SHELL_MODE=allowlist requires SHELL_ALLOWLIST")
	}
	if c.Shell.Timeout < 0 {
		return fmt.Errorf("SHELL_TIMEOUT must not be negative")
	}
	if c.Sysinfo.SampleInterval <= 0 {
		return fmt.Errorf("SYSINFO_SAMPLE_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}
