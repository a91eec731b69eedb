package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ptyhub/internal/filesystem"
	"github.com/GriffinCanCode/ptyhub/internal/terminal"
)

// Version is reported by the root and health endpoints.
const Version = "0.1.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	terminals *terminal.Manager
	logger    *zap.Logger
	started   time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(terminals *terminal.Manager, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		terminals: terminals,
		logger:    logger,
		started:   time.Now(),
	}
}

// Register mounts every route on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/terminals", h.CreateTerminal)
		api.GET("/terminals", h.ListTerminals)
		api.GET("/terminals/:id", h.GetTerminal)
		api.POST("/terminals/:id/input", h.WriteTerminal)
		api.POST("/terminals/:id/resize", h.ResizeTerminal)
		api.PUT("/terminals/:id/cwd", h.UpdateTerminalCwd)
		api.DELETE("/terminals/:id", h.CloseTerminal)

		api.GET("/fs/dir", h.ReadDirectory)
		api.GET("/fs/home", h.HomeDirectory)

		api.POST("/logs", h.StreamLogs)
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "ptyhub",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"version":  Version,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
		"sessions": h.terminals.Len(),
	})
}

// statusFor maps a domain error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, terminal.ErrNotFound),
		errors.Is(err, filesystem.ErrNotFound),
		errors.Is(err, filesystem.ErrNotDirectory):
		return http.StatusNotFound
	case errors.Is(err, terminal.ErrIDOverflow):
		return http.StatusServiceUnavailable
	case errors.Is(err, filesystem.ErrBadPattern):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...} with the mapped status.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
