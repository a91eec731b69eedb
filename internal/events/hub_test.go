package events

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ptyhub/internal/terminal"
)

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case msg, ok := <-sub.C:
		require.True(t, ok, "subscription closed")
		e, err := Decode(msg)
		require.NoError(t, err)
		return e
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestEncodeWireFormat(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"output", Event{Type: TypeOutput, ID: 3, Data: "hi\r\n"}, `{"event":"terminal-output","payload":{"id":3,"data":"hi\r\n"}}`},
		{"closed", Event{Type: TypeClosed, ID: 3}, `{"event":"terminal-closed","payload":{"id":3}}`},
		{"error", Event{Type: TypeError, ID: 9, Data: "boom"}, `{"event":"error","payload":{"id":9,"error":"boom"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Encode(tt.event)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(msg))

			back, err := Decode(msg)
			require.NoError(t, err)
			assert.Equal(t, tt.event, back)
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestHubDeliversInOrderToEverySubscriber(t *testing.T) {
	hub := NewHub(16, nil)
	var _ terminal.Sink = hub

	a := hub.Subscribe()
	b := hub.Subscribe()
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, hub.Len())

	for i := 0; i < 5; i++ {
		hub.Output(1, fmt.Sprintf("chunk-%d", i))
	}
	hub.Closed(1)

	for _, sub := range []*Subscription{a, b} {
		for i := 0; i < 5; i++ {
			e := receive(t, sub)
			assert.Equal(t, TypeOutput, e.Type)
			assert.Equal(t, terminal.SessionID(1), e.ID)
			assert.Equal(t, fmt.Sprintf("chunk-%d", i), e.Data)
		}
		assert.Equal(t, Event{Type: TypeClosed, ID: 1}, receive(t, sub))
	}
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub := NewHub(2, nil)
	slow := hub.Subscribe()
	fast := hub.Subscribe()

	for i := 0; i < 3; i++ {
		hub.Output(1, "x")
		receive(t, fast)
	}

	// slow's queue held two messages; the third overflowed it.
	n := 0
	for range slow.C {
		n++
	}
	assert.Equal(t, 2, n)
	assert.True(t, slow.Dropped())
	assert.Equal(t, 1, hub.Len())

	hub.Closed(1)
	assert.Equal(t, TypeClosed, receive(t, fast).Type)
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub(4, nil)
	sub := hub.Subscribe()

	hub.Unsubscribe(sub.ID)
	hub.Unsubscribe(sub.ID)
	hub.Unsubscribe("unknown")

	_, ok := <-sub.C
	assert.False(t, ok)
	assert.False(t, sub.Dropped())
	assert.Zero(t, hub.Len())

	hub.Output(1, "nobody listening")
}

func TestHubClose(t *testing.T) {
	hub := NewHub(4, nil)
	sub := hub.Subscribe()

	hub.Close()

	_, ok := <-sub.C
	assert.False(t, ok)
	assert.Nil(t, hub.Subscribe())
	assert.Zero(t, hub.Len())

	hub.Output(1, "after close")
	hub.Close()
}
