package terminal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ptyhub/internal/filesystem"
)

// Defaults applied by NewManager.
const (
	DefaultCols           uint16 = 80
	DefaultRows           uint16 = 24
	DefaultReadBufferSize        = 4096
	DefaultCloseGrace            = 2 * time.Second
)

// Manager is the operation surface over a set of terminal sessions.
type Manager struct {
	registry *registry
	ids      *idAllocator
	sink     Sink
	logger   *zap.Logger
	recorder Recorder

	shell      string
	shellArgs  []string
	env        []string
	cols       uint16
	rows       uint16
	bufSize    int
	closeGrace time.Duration
	idStart    SessionID

	readers sync.WaitGroup
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for lifecycle and reader diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithShell overrides the program started in each session.
func WithShell(path string, args ...string) Option {
	return func(m *Manager) {
		if path != "" {
			m.shell = path
			m.shellArgs = args
		}
	}
}

// WithEnv adds KEY=VALUE pairs to every shell's environment.
func WithEnv(env ...string) Option {
	return func(m *Manager) { m.env = append(m.env, env...) }
}

// WithSize sets the initial geometry of new sessions.
func WithSize(cols, rows uint16) Option {
	return func(m *Manager) {
		if cols > 0 && rows > 0 {
			m.cols, m.rows = cols, rows
		}
	}
}

// WithReadBufferSize sets the reader's per-read buffer size.
func WithReadBufferSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.bufSize = n
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		if r != nil {
			m.recorder = r
		}
	}
}

// WithCloseGrace sets how long Close waits after hanging up a shell before
// killing its process group.
func WithCloseGrace(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.closeGrace = d
		}
	}
}

// WithIDStart makes the allocator begin at id instead of 1.
func WithIDStart(id SessionID) Option {
	return func(m *Manager) { m.idStart = id }
}

// NewManager creates a Manager that reports session output to sink.
func NewManager(sink Sink, opts ...Option) *Manager {
	if sink == nil {
		sink = SinkFuncs{}
	}
	shell, args := defaultShell()
	m := &Manager{
		registry:   newRegistry(),
		sink:       sink,
		logger:     zap.NewNop(),
		recorder:   nopRecorder{},
		shell:      shell,
		shellArgs:  args,
		cols:       DefaultCols,
		rows:       DefaultRows,
		bufSize:    DefaultReadBufferSize,
		closeGrace: DefaultCloseGrace,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ids = newIDAllocator(m.idStart)
	return m
}

// Create opens a pty, starts a shell on it and begins streaming its output.
// Nothing is opened or spawned when the id space is exhausted.
func (m *Manager) Create(opts CreateOptions) (Metadata, error) {
	const op = "create"

	if m.registry.isClosed() {
		return Metadata{}, newError(op, 0, ErrSpawn, errShutdown)
	}

	id, ok := m.ids.allocate()
	if !ok {
		m.logger.Warn("Session id space exhausted, restart required")
		return Metadata{}, newError(op, 0, ErrIDOverflow, nil)
	}

	cwd := opts.Cwd
	if cwd == "" {
		cwd = defaultCwd()
	}

	ptmx, tty, err := openDevice(m.cols, m.rows)
	if err != nil {
		return Metadata{}, newError(op, id, ErrDevice, err)
	}

	cmd := exec.Command(m.shell, m.shellArgs...)
	cmd.Dir = cwd
	cmd.Env = append(os.Environ(), m.env...)
	cmd.Env = append(cmd.Env, "TERM=xterm-256color", "COLORTERM=truecolor")

	if err := startShell(cmd, tty); err != nil {
		_ = ptmx.Close()
		m.recorder.SpawnFailed()
		m.logger.Warn("Failed to spawn shell",
			zap.Uint32("session_id", uint32(id)),
			zap.String("shell", m.shell),
			zap.String("cwd", cwd),
			zap.Error(err),
		)
		return Metadata{}, newError(op, id, ErrSpawn, err)
	}

	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("Terminal %d", id)
	}
	meta := Metadata{
		ID:        id,
		Name:      name,
		Cwd:       cwd,
		CreatedAt: timestamp(time.Now()),
	}

	s := newSession(meta, ptmx, cmd, m.cols, m.rows)
	if !m.registry.insert(s) {
		// Shutdown won the race; the shell never becomes visible.
		_ = s.signal(kill)
		_ = ptmx.Close()
		go func() { _ = cmd.Wait() }()
		return Metadata{}, newError(op, id, ErrSpawn, errShutdown)
	}

	r := &reader{
		id:       id,
		src:      ptmx,
		sink:     m.sink,
		bufSize:  m.bufSize,
		logger:   m.logger,
		recorder: m.recorder,
	}
	m.readers.Add(1)
	go func() {
		defer m.readers.Done()
		s.pump(r)
	}()

	m.recorder.SessionOpened()
	m.logger.Info("Terminal session created",
		zap.Uint32("session_id", uint32(id)),
		zap.String("name", name),
		zap.String("cwd", cwd),
		zap.Int("pid", cmd.Process.Pid),
	)
	return meta, nil
}

// Write sends data to the shell's input unchanged. The master is an
// unbuffered file, so the bytes reach the line discipline before Write
// returns. A write stuck on a full input queue holds only its own session;
// Close of that session fails it with an IoError.
func (m *Manager) Write(id SessionID, data []byte) error {
	const op = "write"
	s, ok := m.registry.get(id)
	if !ok {
		return notFound(op, id)
	}
	n, err := s.write(data)
	m.recorder.BytesWritten(n)
	if err != nil {
		return newError(op, id, ErrIO, err)
	}
	return nil
}

// Resize applies a new geometry. Pixel dimensions stay zero.
func (m *Manager) Resize(id SessionID, cols, rows uint16) error {
	const op = "resize"
	found, err := m.registry.with(id, func(s *Session) error {
		if err := setSize(s.ptmx, cols, rows); err != nil {
			return err
		}
		s.cols, s.rows = cols, rows
		return nil
	})
	if !found {
		return notFound(op, id)
	}
	if err != nil {
		return newError(op, id, ErrDevice, err)
	}
	return nil
}

// Close removes the session and tears down its pty and shell. The reader
// goroutine notices on its own and reports Closed to the sink.
func (m *Manager) Close(id SessionID) error {
	const op = "close"
	s, ok := m.registry.remove(id)
	if !ok {
		return notFound(op, id)
	}
	m.recorder.SessionClosed()
	m.logger.Info("Terminal session closed", zap.Uint32("session_id", uint32(id)))

	if err := s.terminate(m.closeGrace, m.logger); err != nil {
		return newError(op, id, ErrIO, err)
	}
	return nil
}

// List returns a snapshot of every registered session, in no particular
// order.
func (m *Manager) List() []Metadata {
	return m.registry.metadata()
}

// Infos is List with live state attached.
func (m *Manager) Infos() []Info {
	return m.registry.infos()
}

// Get returns the live state of one session.
func (m *Manager) Get(id SessionID) (Info, error) {
	var info Info
	found, _ := m.registry.with(id, func(s *Session) error {
		info = s.info()
		return nil
	})
	if !found {
		return Info{}, notFound("get", id)
	}
	return info, nil
}

// UpdateCwd records a working directory reported by the shell. It changes
// metadata only, never the process.
func (m *Manager) UpdateCwd(id SessionID, cwd string) error {
	found, _ := m.registry.with(id, func(s *Session) error {
		s.meta.Cwd = cwd
		return nil
	})
	if !found {
		return notFound("update_cwd", id)
	}
	return nil
}

// Len returns the number of registered sessions.
func (m *Manager) Len() int {
	return m.registry.len()
}

// Shutdown closes every session and waits for all reader goroutines to
// finish, or for ctx to end. Create fails once Shutdown has started.
func (m *Manager) Shutdown(ctx context.Context) error {
	sessions := m.registry.drain()
	for _, s := range sessions {
		m.recorder.SessionClosed()
		if err := s.terminate(m.closeGrace, m.logger); err != nil {
			m.logger.Warn("Failed to close terminal", zap.Uint32("session_id", uint32(s.meta.ID)), zap.Error(err))
		}
	}
	if len(sessions) > 0 {
		m.logger.Info("Closed terminal sessions", zap.Int("count", len(sessions)))
	}

	done := make(chan struct{})
	go func() {
		m.readers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// defaultCwd resolves the home directory from the environment, falling back
// to the current directory.
func defaultCwd() string {
	if home, err := filesystem.HomeDirectory(); err == nil {
		return home
	}
	return "."
}
