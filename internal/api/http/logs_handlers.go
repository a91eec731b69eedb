package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UILogEntry is one log line forwarded by a terminal frontend.
type UILogEntry struct {
	ID        string         `json:"id"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context"`
	Timestamp string         `json:"timestamp"`
	SessionID uint32         `json:"session_id,omitempty"`
}

// UILogStreamRequest is a batch of frontend log entries.
type UILogStreamRequest struct {
	Source  string       `json:"source"` // "ui"
	Entries []UILogEntry `json:"entries"`
}

// StreamLogs writes frontend log batches into the service log
func (h *Handlers) StreamLogs(c *gin.Context) {
	var req UILogStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid log request format")
		return
	}
	if req.Source != "ui" {
		badRequest(c, "Invalid log source")
		return
	}
	if len(req.Entries) == 0 {
		badRequest(c, "No log entries provided")
		return
	}
	if len(req.Entries) > MaxLogEntries {
		badRequest(c, fmt.Sprintf("At most %d log entries per request", MaxLogEntries))
		return
	}

	for _, entry := range req.Entries {
		entry.Message = TruncateString(entry.Message, MaxMessageSize)
		h.logUIEntry(entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"entries_received": len(req.Entries),
		"timestamp":        time.Now().Unix(),
	})
}

func (h *Handlers) logUIEntry(entry UILogEntry) {
	fields := make([]zap.Field, 0, len(entry.Context)+4)
	fields = append(fields,
		zap.String("ui_log_id", entry.ID),
		zap.String("source", "ui"),
		zap.String("ui_timestamp", entry.Timestamp),
	)
	if entry.SessionID != 0 {
		fields = append(fields, zap.Uint32("session_id", entry.SessionID))
	}
	for key, value := range entry.Context {
		switch v := value.(type) {
		case string:
			fields = append(fields, zap.String(key, v))
		case float64:
			fields = append(fields, zap.Float64(key, v))
		case bool:
			fields = append(fields, zap.Bool(key, v))
		default:
			fields = append(fields, zap.Any(key, v))
		}
	}

	logger := h.logger.Named("ui")
	switch entry.Level {
	case "error":
		logger.Error(entry.Message, fields...)
	case "warn":
		logger.Warn(entry.Message, fields...)
	case "debug", "verbose":
		logger.Debug(entry.Message, fields...)
	default:
		logger.Info(entry.Message, fields...)
	}
}
