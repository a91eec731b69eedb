// Package ws provides the WebSocket event stream for terminal sessions.
//
// Every connection subscribes to the events hub and receives all session
// notifications in order. A client that cannot keep up is disconnected with
// a policy-violation close frame instead of being sent a stream with gaps.
//
// Message Types (Client → Server):
//   - write: {"type":"write","id":1,"data":"ls\n"}
//   - resize: {"type":"resize","id":1,"cols":120,"rows":40}
//   - close: {"type":"close","id":1}
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - terminal-output: {"event":"terminal-output","payload":{"id":1,"data":"..."}}
//   - terminal-closed: {"event":"terminal-closed","payload":{"id":1}}
//   - error: {"event":"error","payload":{"id":1,"error":"..."}}
//   - pong: Reply to ping
//
// Example Usage:
//
//	handler := ws.NewHandler(manager, hub, logger, metrics, cfg.Stream.WriteTimeout)
//	router.GET("/stream", handler.HandleConnection)
package ws
