package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
	assert.Empty(t, cfg.Logging.File)

	assert.Equal(t, uint16(80), cfg.Terminal.Cols)
	assert.Equal(t, uint16(24), cfg.Terminal.Rows)
	assert.Equal(t, 4096, cfg.Terminal.ReadBufferSize)
	assert.Empty(t, cfg.Terminal.Shell)

	assert.Equal(t, 256, cfg.Stream.ClientBuffer)

	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestLoadOrDefault(t *testing.T) {
	// Should return default when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                 "9000",
		"HOST":                 "0.0.0.0",
		"LOG_LEVEL":            "debug",
		"LOG_DEV":              "true",
		"LOG_FILE":             "/tmp/ptyhub.log",
		"TERMINAL_SHELL":       "/bin/zsh",
		"TERMINAL_SHELL_ARGS":  "-l,-i",
		"TERMINAL_ENV":         "LANG=C.UTF-8",
		"TERMINAL_COLS":        "132",
		"TERMINAL_ROWS":        "43",
		"TERMINAL_CLOSE_GRACE": "500ms",
		"WS_CLIENT_BUFFER":     "64",
		"RATE_LIMIT_RPS":       "500",
		"RATE_LIMIT_BURST":     "1000",
		"RATE_LIMIT_ENABLED":   "false",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "/tmp/ptyhub.log", cfg.Logging.File)

	assert.Equal(t, "/bin/zsh", cfg.Terminal.Shell)
	assert.Equal(t, []string{"-l", "-i"}, cfg.Terminal.ShellArgs)
	assert.Equal(t, []string{"LANG=C.UTF-8"}, cfg.Terminal.Env)
	assert.Equal(t, uint16(132), cfg.Terminal.Cols)
	assert.Equal(t, uint16(43), cfg.Terminal.Rows)
	assert.Equal(t, 500*time.Millisecond, cfg.Terminal.CloseGrace)

	assert.Equal(t, 64, cfg.Stream.ClientBuffer)

	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non-numeric port", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"zero columns", "TERMINAL_COLS", "0"},
		{"columns overflow uint16", "TERMINAL_COLS", "70000"},
		{"zero read buffer", "TERMINAL_READ_BUFFER", "0"},
		{"zero client buffer", "WS_CLIENT_BUFFER", "0"},
		{"bad duration", "TERMINAL_CLOSE_GRACE", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadOrDefaultFallsBackOnError(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg := LoadOrDefault()
	require.NotNil(t, cfg)
	assert.Equal(t, "8000", cfg.Server.Port)
}
