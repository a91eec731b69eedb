// Package http provides the REST surface of ptyhub.
//
// Handlers expose terminal session operations and directory listing over
// JSON using the Gin framework. Domain errors map to status codes:
// unknown sessions and missing directories answer 404, an exhausted
// session id space answers 503, device and spawn failures answer 500.
//
// Endpoints:
//   - Health: / and /health
//   - Terminals: /api/terminals, /api/terminals/:id, /api/terminals/:id/input,
//     /api/terminals/:id/resize, /api/terminals/:id/cwd
//   - Filesystem: /api/fs/dir?path=&pattern=, /api/fs/home
//   - Frontend logs: /api/logs
//
// Example Usage:
//
//	handlers := http.NewHandlers(manager, logger)
//	handlers.Register(router)
package http
