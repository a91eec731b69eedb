package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/ptyhub/internal/filesystem"
)

// ReadDirectory lists one directory level
func (h *Handlers) ReadDirectory(c *gin.Context) {
	path := c.Query("path")
	if err := ValidateString(path, "path", MaxPathLength, true); err != nil {
		badRequest(c, err.Error())
		return
	}

	entries, err := filesystem.ReadDirectoryMatching(path, c.Query("pattern"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"path":    path,
		"entries": entries,
	})
}

// HomeDirectory reports the user's home directory
func (h *Handlers) HomeDirectory(c *gin.Context) {
	home, err := filesystem.HomeDirectory()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": home})
}
