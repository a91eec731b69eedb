package terminal

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a Manager operation matches exactly
// one of these with errors.Is.
var (
	ErrNotFound   = errors.New("session not found")
	ErrIDOverflow = errors.New("session id space exhausted")
	ErrDevice     = errors.New("pseudo-terminal device error")
	ErrSpawn      = errors.New("failed to spawn shell")
	ErrIO         = errors.New("terminal i/o error")
)

var errShutdown = errors.New("manager is shut down")

// Error describes a failed Manager operation.
type Error struct {
	Op   string    // operation name, e.g. "write"
	ID   SessionID // zero when no session was involved
	Kind error     // one of the Err* kinds above
	Err  error     // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Op
	if e.ID != 0 {
		msg = fmt.Sprintf("%s session %d", msg, e.ID)
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, id SessionID, kind, err error) *Error {
	return &Error{Op: op, ID: id, Kind: kind, Err: err}
}

func notFound(op string, id SessionID) *Error {
	return newError(op, id, ErrNotFound, nil)
}

// Kind returns the error kind of err, or nil if err did not come from this
// package.
func Kind(err error) error {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return nil
}
