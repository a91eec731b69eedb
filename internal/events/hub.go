package events

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ptyhub/internal/terminal"
)

// DefaultQueueSize is the per-subscriber backlog used when none is given.
const DefaultQueueSize = 256

// Subscription is one consumer's ordered view of the event stream. Messages
// are already encoded. C is closed when the subscription ends, either by
// Unsubscribe or because the consumer fell too far behind.
type Subscription struct {
	ID string
	C  <-chan []byte

	ch      chan []byte
	dropped bool
}

// Dropped reports whether the hub cut this subscription off for being slow.
// Only meaningful after C has been closed.
func (s *Subscription) Dropped() bool { return s.dropped }

// Hub fans session notifications out to subscribers. It implements
// terminal.Sink: each notification is encoded once and queued, in order, to
// every subscriber. A subscriber whose queue is full is disconnected rather
// than handed a stream with holes in it.
type Hub struct {
	mu        sync.Mutex
	subs      map[string]*Subscription
	queueSize int
	closed    bool
	logger    *zap.Logger
}

// NewHub creates a hub with the given per-subscriber queue size.
func NewHub(queueSize int, logger *zap.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:      make(map[string]*Subscription),
		queueSize: queueSize,
		logger:    logger,
	}
}

// Subscribe adds a subscriber. It returns nil once the hub is closed.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	ch := make(chan []byte, h.queueSize)
	sub := &Subscription{ID: uuid.NewString(), C: ch, ch: ch}
	h.subs[sub.ID] = sub
	h.logger.Debug("Subscriber added", zap.String("subscriber_id", sub.ID), zap.Int("subscribers", len(h.subs)))
	return sub
}

// Unsubscribe removes the subscriber and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish encodes e and queues it to every subscriber.
func (h *Hub) Publish(e Event) {
	msg, err := Encode(e)
	if err != nil {
		h.logger.Error("Failed to encode event", zap.String("type", e.Type), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		select {
		case sub.ch <- msg:
		default:
			sub.dropped = true
			delete(h.subs, id)
			close(sub.ch)
			h.logger.Warn("Dropping slow subscriber", zap.String("subscriber_id", id))
		}
	}
}

// Output implements terminal.Sink.
func (h *Hub) Output(id terminal.SessionID, data string) {
	h.Publish(Event{Type: TypeOutput, ID: id, Data: data})
}

// Closed implements terminal.Sink.
func (h *Hub) Closed(id terminal.SessionID) {
	h.Publish(Event{Type: TypeClosed, ID: id})
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}
