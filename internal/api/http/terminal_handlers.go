package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/ptyhub/internal/terminal"
)

// CreateTerminalRequest is the body of POST /api/terminals. Both fields are
// optional.
type CreateTerminalRequest struct {
	Cwd  string `json:"cwd"`
	Name string `json:"name"`
}

// WriteTerminalRequest is the body of POST /api/terminals/:id/input.
type WriteTerminalRequest struct {
	Data string `json:"data"`
}

// ResizeTerminalRequest is the body of POST /api/terminals/:id/resize.
type ResizeTerminalRequest struct {
	Cols uint16 `json:"cols" binding:"required"`
	Rows uint16 `json:"rows" binding:"required"`
}

// UpdateCwdRequest is the body of PUT /api/terminals/:id/cwd.
type UpdateCwdRequest struct {
	Cwd string `json:"cwd" binding:"required"`
}

// CreateTerminal starts a new session
func (h *Handlers) CreateTerminal(c *gin.Context) {
	// An empty body means all defaults.
	var req CreateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := ValidateString(req.Name, "name", MaxNameLength, false); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := ValidateString(req.Cwd, "cwd", MaxPathLength, false); err != nil {
		badRequest(c, err.Error())
		return
	}

	meta, err := h.terminals.Create(terminal.CreateOptions{Cwd: req.Cwd, Name: req.Name})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meta)
}

// ListTerminals lists all registered sessions
func (h *Handlers) ListTerminals(c *gin.Context) {
	if c.Query("detail") == "true" {
		infos := h.terminals.Infos()
		c.JSON(http.StatusOK, gin.H{"sessions": infos, "count": len(infos)})
		return
	}
	sessions := h.terminals.List()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetTerminal returns the live state of one session
func (h *Handlers) GetTerminal(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	info, err := h.terminals.Get(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// WriteTerminal forwards input to a session
func (h *Handlers) WriteTerminal(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req WriteTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := ValidateInput(req.Data); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.terminals.Write(id, []byte(req.Data)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ResizeTerminal changes a session's geometry
func (h *Handlers) ResizeTerminal(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req ResizeTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "cols and rows must be positive integers")
		return
	}
	if err := h.terminals.Resize(id, req.Cols, req.Rows); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateTerminalCwd records a session's working directory
func (h *Handlers) UpdateTerminalCwd(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req UpdateCwdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "cwd is required")
		return
	}
	if err := ValidateString(req.Cwd, "cwd", MaxPathLength, true); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.terminals.UpdateCwd(id, req.Cwd); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CloseTerminal closes a session
func (h *Handlers) CloseTerminal(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.terminals.Close(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// sessionID parses the :id path parameter, answering 400 when it is not a
// session id.
func sessionID(c *gin.Context) (terminal.SessionID, bool) {
	id, err := terminal.ParseSessionID(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid session id")
		return 0, false
	}
	return id, true
}
