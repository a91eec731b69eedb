package http

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Request limits
const (
	MaxNameLength  = 256
	MaxPathLength  = 4096
	MaxInputSize   = 1 * 1024 * 1024 // 1MB per write
	MaxLogEntries  = 500
	MaxMessageSize = 16 * 1024
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, maxLen int, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}

	if utf8.RuneCountInString(value) > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	// Null bytes cannot appear in paths or names
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// TruncateString shortens value to at most maxBytes without splitting a
// UTF-8 sequence.
func TruncateString(value string, maxBytes int) string {
	if len(value) <= maxBytes {
		return value
	}
	i := maxBytes
	for i > 0 && !utf8.RuneStart(value[i]) {
		i--
	}
	return value[:i]
}

// ValidateInput checks terminal input. Any byte is allowed; only the size
// is bounded.
func ValidateInput(data string) error {
	if len(data) > MaxInputSize {
		return fmt.Errorf("data must not exceed %d bytes", MaxInputSize)
	}
	return nil
}
