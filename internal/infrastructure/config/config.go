package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	Terminal  TerminalConfig
	Stream    StreamConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	Host            string        `envconfig:"HOST" default:"127.0.0.1"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	File        string `envconfig:"LOG_FILE"`
	MaxSizeMB   int    `envconfig:"LOG_MAX_SIZE_MB" default:"50"`
	MaxBackups  int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	MaxAgeDays  int    `envconfig:"LOG_MAX_AGE_DAYS" default:"14"`
}

// TerminalConfig holds pseudo-terminal session defaults.
type TerminalConfig struct {
	Shell          string        `envconfig:"TERMINAL_SHELL"`
	ShellArgs      []string      `envconfig:"TERMINAL_SHELL_ARGS"`
	Env            []string      `envconfig:"TERMINAL_ENV"`
	Cols           uint16        `envconfig:"TERMINAL_COLS" default:"80"`
	Rows           uint16        `envconfig:"TERMINAL_ROWS" default:"24"`
	ReadBufferSize int           `envconfig:"TERMINAL_READ_BUFFER" default:"4096"`
	CloseGrace     time.Duration `envconfig:"TERMINAL_CLOSE_GRACE" default:"2s"`
}

// StreamConfig holds WebSocket event stream configuration.
type StreamConfig struct {
	ClientBuffer int           `envconfig:"WS_CLIENT_BUFFER" default:"256"`
	WriteTimeout time.Duration `envconfig:"WS_WRITE_TIMEOUT" default:"10s"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := processEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func processEnv(cfg *Config) error {
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
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
			Port:            "8000",
			Host:            "127.0.0.1",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Terminal: TerminalConfig{
			Cols:           80,
			Rows:           24,
			ReadBufferSize: 4096,
			CloseGrace:     2 * time.Second,
		},
		Stream: StreamConfig{
			ClientBuffer: 256,
			WriteTimeout: 10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q: must be between 1 and 65535", c.Server.Port)
	}
	if c.Terminal.Cols == 0 || c.Terminal.Rows == 0 {
		return fmt.Errorf("invalid terminal size %dx%d", c.Terminal.Cols, c.Terminal.Rows)
	}
	if c.Terminal.ReadBufferSize <= 0 {
		return fmt.Errorf("invalid terminal read buffer %d", c.Terminal.ReadBufferSize)
	}
	if c.Stream.ClientBuffer <= 0 {
		return fmt.Errorf("invalid websocket client buffer %d", c.Stream.ClientBuffer)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid rate limit %d rps / burst %d", c.RateLimit.RequestsPerSecond, c.RateLimit.Burst)
	}
	return nil
}
