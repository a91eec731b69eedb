// Package terminal hosts interactive shells on pseudo-terminals.
//
// A Manager owns a registry of sessions keyed by SessionID. Each session is
// a pty pair with a shell attached to the slave side and one reader
// goroutine draining the master side. The reader forwards every read to a
// Sink as text and reports Closed exactly once when the stream ends; it
// never touches the registry, so a session whose shell exited stays listed
// (with Info.Alive false) until Close.
//
// Operations:
//   - Create: allocate an id, open a pty, spawn the shell, start the reader
//   - Write / Resize: act on the master side under the registry lock
//   - Close: unregister, hang up the shell, close the master
//   - List / Get / UpdateCwd: metadata access
//   - Shutdown: close everything and wait for the readers
//
// Every failure is a *Error whose kind is one of ErrNotFound,
// ErrIDOverflow, ErrDevice, ErrSpawn or ErrIO.
//
// Example Usage:
//
//	m := terminal.NewManager(hub, terminal.WithLogger(logger))
//	meta, err := m.Create(terminal.CreateOptions{Cwd: "/tmp"})
//	err = m.Write(meta.ID, []byte("ls\n"))
package terminal
