// Package config provides 12-factor configuration management for ptyhub.
//
// Configuration is loaded from environment variables with sensible defaults.
// LoadFile additionally applies a YAML or TOML file over the environment,
// and CLI flags can override both.
//
// Configuration Sections:
//   - Server: HTTP listen address and shutdown timeout
//   - Logging: Log level, output format and optional rotated log file
//   - Terminal: Shell, initial geometry, read buffer and close grace period
//   - Stream: WebSocket subscriber backlog and write timeout
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, SHUTDOWN_TIMEOUT
//   - LOG_LEVEL, LOG_DEV, LOG_FILE, LOG_MAX_SIZE_MB, LOG_MAX_BACKUPS, LOG_MAX_AGE_DAYS
//   - TERMINAL_SHELL, TERMINAL_SHELL_ARGS, TERMINAL_COLS, TERMINAL_ROWS,
//     TERMINAL_READ_BUFFER, TERMINAL_CLOSE_GRACE
//   - WS_CLIENT_BUFFER, WS_WRITE_TIMEOUT
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
