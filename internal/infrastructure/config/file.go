package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config for YAML and TOML files. Pointers tell a key
// that is absent from one that is set to its zero value; durations are
// strings such as "10s".
type fileConfig struct {
	Server *struct {
		Port            *string `yaml:"port" toml:"port"`
		Host            *string `yaml:"host" toml:"host"`
		ShutdownTimeout *string `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	} `yaml:"server" toml:"server"`
	Logging *struct {
		Level       *string `yaml:"level" toml:"level"`
		Development *bool   `yaml:"development" toml:"development"`
		File        *string `yaml:"file" toml:"file"`
		MaxSizeMB   *int    `yaml:"max_size_mb" toml:"max_size_mb"`
		MaxBackups  *int    `yaml:"max_backups" toml:"max_backups"`
		MaxAgeDays  *int    `yaml:"max_age_days" toml:"max_age_days"`
	} `yaml:"logging" toml:"logging"`
	Terminal *struct {
		Shell          *string  `yaml:"shell" toml:"shell"`
		ShellArgs      []string `yaml:"shell_args" toml:"shell_args"`
		Env            []string `yaml:"env" toml:"env"`
		Cols           *uint16  `yaml:"cols" toml:"cols"`
		Rows           *uint16  `yaml:"rows" toml:"rows"`
		ReadBufferSize *int     `yaml:"read_buffer" toml:"read_buffer"`
		CloseGrace     *string  `yaml:"close_grace" toml:"close_grace"`
	} `yaml:"terminal" toml:"terminal"`
	Stream *struct {
		ClientBuffer *int    `yaml:"client_buffer" toml:"client_buffer"`
		WriteTimeout *string `yaml:"write_timeout" toml:"write_timeout"`
	} `yaml:"stream" toml:"stream"`
	RateLimit *struct {
		RequestsPerSecond *int  `yaml:"rps" toml:"rps"`
		Burst             *int  `yaml:"burst" toml:"burst"`
		Enabled           *bool `yaml:"enabled" toml:"enabled"`
	} `yaml:"rate_limit" toml:"rate_limit"`
}

// LoadFile loads configuration from the environment and then applies the
// YAML (.yaml, .yml) or TOML (.toml) file at path on top of it.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if err := processEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.ApplyFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyFile overlays the keys present in the file at path onto c.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("unsupported config file type %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return fc.apply(c)
}

func (fc *fileConfig) apply(c *Config) error {
	if s := fc.Server; s != nil {
		set(&c.Server.Port, s.Port)
		set(&c.Server.Host, s.Host)
		if err := setDuration(&c.Server.ShutdownTimeout, s.ShutdownTimeout, "server.shutdown_timeout"); err != nil {
			return err
		}
	}
	if l := fc.Logging; l != nil {
		set(&c.Logging.Level, l.Level)
		set(&c.Logging.Development, l.Development)
		set(&c.Logging.File, l.File)
		set(&c.Logging.MaxSizeMB, l.MaxSizeMB)
		set(&c.Logging.MaxBackups, l.MaxBackups)
		set(&c.Logging.MaxAgeDays, l.MaxAgeDays)
	}
	if t := fc.Terminal; t != nil {
		set(&c.Terminal.Shell, t.Shell)
		if t.ShellArgs != nil {
			c.Terminal.ShellArgs = t.ShellArgs
		}
		if t.Env != nil {
			c.Terminal.Env = t.Env
		}
		set(&c.Terminal.Cols, t.Cols)
		set(&c.Terminal.Rows, t.Rows)
		set(&c.Terminal.ReadBufferSize, t.ReadBufferSize)
		if err := setDuration(&c.Terminal.CloseGrace, t.CloseGrace, "terminal.close_grace"); err != nil {
			return err
		}
	}
	if s := fc.Stream; s != nil {
		set(&c.Stream.ClientBuffer, s.ClientBuffer)
		if err := setDuration(&c.Stream.WriteTimeout, s.WriteTimeout, "stream.write_timeout"); err != nil {
			return err
		}
	}
	if r := fc.RateLimit; r != nil {
		set(&c.RateLimit.RequestsPerSecond, r.RequestsPerSecond)
		set(&c.RateLimit.Burst, r.Burst)
		set(&c.RateLimit.Enabled, r.Enabled)
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, key string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, *v, err)
	}
	*dst = d
	return nil
}
