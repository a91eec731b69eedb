package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ptyhub/internal/events"
	"github.com/GriffinCanCode/ptyhub/internal/terminal"
)

// DefaultWriteTimeout bounds a single frame write to a client.
const DefaultWriteTimeout = 10 * time.Second

// maxMessageSize bounds one inbound command, input data included.
const maxMessageSize = 1<<20 + 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // local service, CORS middleware governs REST
	},
}

// Message is a client command.
type Message struct {
	Type string             `json:"type"`
	ID   terminal.SessionID `json:"id"`
	Data string             `json:"data,omitempty"`
	Cols uint16             `json:"cols,omitempty"`
	Rows uint16             `json:"rows,omitempty"`
}

// Recorder receives connection and message counts.
type Recorder interface {
	IncWSConnections()
	DecWSConnections()
	RecordWSMessage(direction, msgType string)
}

type nopRecorder struct{}

func (nopRecorder) IncWSConnections()              {}
func (nopRecorder) DecWSConnections()              {}
func (nopRecorder) RecordWSMessage(string, string) {}

// Handler manages WebSocket connections
type Handler struct {
	terminals    *terminal.Manager
	hub          *events.Hub
	logger       *zap.Logger
	recorder     Recorder
	writeTimeout time.Duration
}

// NewHandler creates a new WebSocket handler. recorder may be nil.
func NewHandler(terminals *terminal.Manager, hub *events.Hub, logger *zap.Logger, recorder Recorder, writeTimeout time.Duration) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Handler{
		terminals:    terminals,
		hub:          hub,
		logger:       logger,
		recorder:     recorder,
		writeTimeout: writeTimeout,
	}
}

// client serializes writes to one connection.
type client struct {
	conn    *websocket.Conn
	mu      sync.Mutex
	timeout time.Duration
}

func (c *client) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

func (c *client) closeWith(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	deadline := time.Now().Add(c.timeout)
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
}

// HandleConnection upgrades the request, streams every session notification
// to the client and executes the commands it sends.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe()
	if sub == nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(h.writeTimeout))
		return
	}

	h.recorder.IncWSConnections()
	defer h.recorder.DecWSConnections()

	conn.SetReadLimit(maxMessageSize)
	cl := &client{conn: conn, timeout: h.writeTimeout}
	logger := h.logger.With(zap.String("subscriber_id", sub.ID))
	logger.Debug("WebSocket client connected", zap.String("remote", c.ClientIP()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.forward(cl, sub, logger)
	}()

	h.readLoop(cl, logger)
	h.hub.Unsubscribe(sub.ID)
	<-done
	logger.Debug("WebSocket client disconnected")
}

// forward copies hub messages to the client until the subscription ends.
func (h *Handler) forward(cl *client, sub *events.Subscription, logger *zap.Logger) {
	for msg := range sub.C {
		if err := cl.write(msg); err != nil {
			logger.Debug("WebSocket write failed", zap.Error(err))
			h.hub.Unsubscribe(sub.ID)
			_ = cl.conn.Close()
			for range sub.C {
			}
			return
		}
		h.recorder.RecordWSMessage("out", "event")
	}

	if sub.Dropped() {
		logger.Warn("WebSocket client too slow, disconnecting")
		cl.closeWith(websocket.ClosePolicyViolation, "client too slow")
	} else {
		cl.closeWith(websocket.CloseGoingAway, "stream closed")
	}
	_ = cl.conn.Close()
}

func (h *Handler) readLoop(cl *client, logger *zap.Logger) {
	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg Message
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.recorder.RecordWSMessage("in", "invalid")
			h.sendError(cl, 0, "invalid message")
			continue
		}
		h.recorder.RecordWSMessage("in", msg.Type)
		h.dispatch(cl, msg)
	}
}

func (h *Handler) dispatch(cl *client, msg Message) {
	var err error
	switch msg.Type {
	case "write":
		err = h.terminals.Write(msg.ID, []byte(msg.Data))
	case "resize":
		err = h.terminals.Resize(msg.ID, msg.Cols, msg.Rows)
	case "close":
		err = h.terminals.Close(msg.ID)
	case "ping":
		_ = cl.write([]byte(`{"event":"pong"}`))
		return
	default:
		h.sendError(cl, msg.ID, "unknown message type")
		return
	}
	if err != nil {
		h.sendError(cl, msg.ID, err.Error())
	}
}

func (h *Handler) sendError(cl *client, id terminal.SessionID, text string) {
	msg, err := events.Encode(events.Event{Type: events.TypeError, ID: id, Data: text})
	if err != nil {
		return
	}
	_ = cl.write(msg)
}
