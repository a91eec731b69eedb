package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "ptyhub.yaml", `
server:
  port: "9100"
  shutdown_timeout: 3s
terminal:
  shell: /bin/bash
  shell_args: ["-l"]
  env: ["EDITOR=vi"]
  cols: 120
  close_grace: 750ms
rate_limit:
  enabled: false
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host, "absent keys keep their defaults")
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/bin/bash", cfg.Terminal.Shell)
	assert.Equal(t, []string{"-l"}, cfg.Terminal.ShellArgs)
	assert.Equal(t, []string{"EDITOR=vi"}, cfg.Terminal.Env)
	assert.Equal(t, uint16(120), cfg.Terminal.Cols)
	assert.Equal(t, uint16(24), cfg.Terminal.Rows)
	assert.Equal(t, 750*time.Millisecond, cfg.Terminal.CloseGrace)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
}

func TestLoadFileTOML(t *testing.T) {
	path := writeFile(t, "ptyhub.toml", `
[logging]
level = "debug"
file = "/var/log/ptyhub.log"
max_backups = 7

[stream]
client_buffer = 32
write_timeout = "2s"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/var/log/ptyhub.log", cfg.Logging.File)
	assert.Equal(t, 7, cfg.Logging.MaxBackups)
	assert.Equal(t, 50, cfg.Logging.MaxSizeMB)
	assert.Equal(t, 32, cfg.Stream.ClientBuffer)
	assert.Equal(t, 2*time.Second, cfg.Stream.WriteTimeout)
}

func TestLoadFileOverridesEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("HOST", "0.0.0.0")
	path := writeFile(t, "ptyhub.yml", "server:\n  port: \"9200\"\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "9200", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown extension", "ptyhub.ini", "port=1"},
		{"malformed yaml", "ptyhub.yaml", "server: [unterminated"},
		{"malformed toml", "ptyhub.toml", "[server\nport = 1"},
		{"bad duration", "ptyhub.yaml", "terminal:\n  close_grace: soon\n"},
		{"invalid result", "ptyhub.toml", "[terminal]\nrows = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
