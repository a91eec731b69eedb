// Package server composes ptyhub: configuration, logging, metrics, the
// terminal session manager, the events hub and the gin router, plus the
// lifecycle that serves them and tears them down.
package server
