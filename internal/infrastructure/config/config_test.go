package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.Equal(t, ShellModeShell, cfg.Shell.Mode)
	assert.Equal(t, "/bin/sh", cfg.Shell.Binary)
	assert.Zero(t, cfg.Shell.Timeout)
	assert.False(t, cfg.Shell.PTY)

	assert.Empty(t, cfg.Session.StartDir)
	assert.Equal(t, time.Second, cfg.Sysinfo.SampleInterval)

	require.NoError(t, cfg.Validate())
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                    "9000",
		"HOST":                    "127.0.0.1",
		"LOG_LEVEL":               "debug",
		"LOG_DEV":                 "true",
		"RATE_LIMIT_RPS":          "500",
		"RATE_LIMIT_BURST":        "1000",
		"RATE_LIMIT_ENABLED":      "false",
		"SHELL_MODE":              "allowlist",
		"SHELL_BINARY":            "/bin/bash",
		"SHELL_ALLOWLIST":         "git,echo,ls*",
		"SHELL_TIMEOUT":           "30s",
		"SHELL_PTY":               "true",
		"SESSION_START_DIR":       "/tmp",
		"SYSINFO_SAMPLE_INTERVAL": "250ms",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, ShellModeAllowlist, cfg.Shell.Mode)
	assert.Equal(t, "/bin/bash", cfg.Shell.Binary)
	assert.Equal(t, []string{"git", "echo", "ls*"}, cfg.Shell.Allowlist)
	assert.Equal(t, 30*time.Second, cfg.Shell.Timeout)
	assert.True(t, cfg.Shell.PTY)
	assert.Equal(t, "/tmp", cfg.Session.StartDir)
	assert.Equal(t, 250*time.Millisecond, cfg.Sysinfo.SampleInterval)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)

	assert.Equal(t, ShellModeShell, cfg.Shell.Mode)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webterm.yaml")
	content := `
server:
  port: "7070"
shell:
  mode: disabled
  timeout: 5s
sysinfo:
  sample_interval: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, ShellModeDisabled, cfg.Shell.Mode)
	assert.Equal(t, 5*time.Second, cfg.Shell.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Sysinfo.SampleInterval)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webterm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"7070\"\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "6060")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "6060", cfg.Server.Port)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown shell mode",
			mutate:  func(c *Config) { c.Shell.Mode = "sandbox" },
			wantErr: true,
		},
		{
			name:    "allowlist mode without patterns",
			mutate:  func(c *Config) { c.Shell.Mode = ShellModeAllowlist },
			wantErr: true,
		},
		{
			name: "allowlist mode with patterns",
			mutate: func(c *Config) {
				c.Shell.Mode = ShellModeAllowlist
				c.Shell.Allowlist = []string{"echo"}
			},
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Shell.Timeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "zero sample interval",
			mutate:  func(c *Config) { c.Sysinfo.SampleInterval = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInvalidModeFallsBackToDefault(t *testing.T) {
	t.Setenv("SHELL_MODE", "sandbox")

	cfg := LoadOrDefault()
	assert.Equal(t, ShellModeShell, cfg.Shell.Mode)
}
