// Package main is the entry point for the ptyhub server.
//
// ptyhub hosts interactive shells on pseudo-terminals and exposes them to a
// local frontend: commands over REST, output over a WebSocket stream.
//
// The server provides:
//   - REST API for terminal sessions and directory listing
//   - WebSocket streaming of terminal output and close notifications
//   - Prometheus metrics at /metrics
//   - Rate limiting and CORS
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional YAML or TOML file (-config), applied over env vars
//   - CLI flags (override both)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -host 127.0.0.1
//
//	# Development mode (colored logs, debug level) with a specific shell
//	./server -dev -shell /bin/zsh
//
//	# Settings from a file (YAML or TOML), flags still win
//	./server -config ptyhub.yaml -port 9000
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown, every session is closed
package main
