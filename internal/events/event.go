package events

import (
	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/ptyhub/internal/terminal"
)

// Event types pushed to subscribers.
const (
	TypeOutput = "terminal-output"
	TypeClosed = "terminal-closed"
	TypeError  = "error"
)

// Event is one notification about a session.
type Event struct {
	Type string
	ID   terminal.SessionID
	Data string
}

// Envelope is the wire form of an Event.
type Envelope struct {
	Event   string  `json:"event"`
	Payload Payload `json:"payload"`
}

// Payload carries the event body. Data is omitted for terminal-closed.
type Payload struct {
	ID    terminal.SessionID `json:"id"`
	Data  string             `json:"data,omitempty"`
	Error string             `json:"error,omitempty"`
}

// Encode renders e in wire form.
func Encode(e Event) ([]byte, error) {
	env := Envelope{Event: e.Type, Payload: Payload{ID: e.ID}}
	if e.Type == TypeError {
		env.Payload.Error = e.Data
	} else {
		env.Payload.Data = e.Data
	}
	return sonic.Marshal(env)
}

// Decode parses the wire form produced by Encode.
func Decode(data []byte) (Event, error) {
	var env Envelope
	if err := sonic.Unmarshal(data, &env); err != nil {
		return Event{}, err
	}
	e := Event{Type: env.Event, ID: env.Payload.ID, Data: env.Payload.Data}
	if env.Event == TypeError {
		e.Data = env.Payload.Error
	}
	return e, nil
}
