package terminal

import (
	"strconv"
	"time"
)

// SessionID identifies a session for the lifetime of its Manager.
type SessionID uint32

func (id SessionID) String() string { return strconv.FormatUint(uint64(id), 10) }

// ParseSessionID parses the decimal form produced by String.
func ParseSessionID(s string) (SessionID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return SessionID(v), nil
}

// Metadata is the public description of a session. Only Cwd changes after
// creation, and only through Manager.UpdateCwd.
type Metadata struct {
	ID        SessionID `json:"id"`
	Name      string    `json:"name"`
	Cwd       string    `json:"cwd"`
	CreatedAt string    `json:"created_at"`
}

// Info extends Metadata with live state. Alive turns false once the reader
// task has observed end-of-stream; the session stays registered until Close.
type Info struct {
	Metadata
	Alive bool   `json:"alive"`
	Cols  uint16 `json:"cols"`
	Rows  uint16 `json:"rows"`
	PID   int    `json:"pid"`
}

// CreateOptions holds the optional arguments of Manager.Create.
type CreateOptions struct {
	Cwd  string `json:"cwd,omitempty"`
	Name string `json:"name,omitempty"`
}

// Sink receives asynchronous session notifications. Calls for one session
// come from that session's reader goroutine, in output order; calls for
// different sessions may be concurrent.
type Sink interface {
	Output(id SessionID, data string)
	Closed(id SessionID)
}

// SinkFuncs adapts a pair of functions to Sink. Nil fields are ignored.
type SinkFuncs struct {
	OnOutput func(id SessionID, data string)
	OnClosed func(id SessionID)
}

func (f SinkFuncs) Output(id SessionID, data string) {
	if f.OnOutput != nil {
		f.OnOutput(id, data)
	}
}

func (f SinkFuncs) Closed(id SessionID) {
	if f.OnClosed != nil {
		f.OnClosed(id)
	}
}

// Recorder observes session lifecycle and traffic, typically for metrics.
type Recorder interface {
	SessionOpened()
	SessionClosed()
	SessionExited()
	SpawnFailed()
	BytesRead(n int)
	BytesWritten(n int)
}

type nopRecorder struct{}

func (nopRecorder) SessionOpened()   {}
func (nopRecorder) SessionClosed()   {}
func (nopRecorder) SessionExited()   {}
func (nopRecorder) SpawnFailed()     {}
func (nopRecorder) BytesRead(int)    {}
func (nopRecorder) BytesWritten(int) {}

func timestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
