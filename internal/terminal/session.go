package terminal

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Session is one pty pair plus the shell attached to its slave side. The
// master file and the child process are owned exclusively by the Session.
// Writes are serialized by writeMu and run outside the registry lock, since
// a full input queue can block them indefinitely; the reader goroutine only
// reads.
type Session struct {
	meta Metadata
	cols uint16
	rows uint16

	ptmx *os.File
	cmd  *exec.Cmd

	writeMu sync.Mutex

	alive atomic.Bool
	done  chan struct{} // closed when the reader goroutine returns

	procMu sync.Mutex
	reaped bool
}

func newSession(meta Metadata, ptmx *os.File, cmd *exec.Cmd, cols, rows uint16) *Session {
	s := &Session{
		meta: meta,
		cols: cols,
		rows: rows,
		ptmx: ptmx,
		cmd:  cmd,
		done: make(chan struct{}),
	}
	s.alive.Store(true)
	return s
}

func (s *Session) info() Info {
	pid := 0
	if s.cmd.Process != nil {
		pid = s.cmd.Process.Pid
	}
	return Info{
		Metadata: s.meta,
		Alive:    s.alive.Load(),
		Cols:     s.cols,
		Rows:     s.rows,
		PID:      pid,
	}
}

// write sends data to the master in full. Concurrent writers never
// interleave their bytes.
func (s *Session) write(data []byte) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.ptmx.Write(data)
}

// reader is the per-session output pump. It owns nothing shared with the
// control path except the read side of ptmx, and talks only to the sink.
type reader struct {
	id       SessionID
	src      io.Reader
	sink     Sink
	bufSize  int
	logger   *zap.Logger
	recorder Recorder
}

// run reads until end-of-stream or the first error, forwarding every
// non-empty read in order, then reports Closed exactly once.
func (r *reader) run() {
	buf := make([]byte, r.bufSize)
	var dec textDecoder
	for {
		n, err := r.src.Read(buf)
		if n > 0 {
			r.recorder.BytesRead(n)
			if text := dec.decode(buf[:n]); text != "" {
				r.sink.Output(r.id, text)
			}
		}
		if err != nil {
			r.logEnd(err)
			break
		}
		if n == 0 {
			r.logger.Debug("Terminal stream ended", zap.Uint32("session_id", uint32(r.id)))
			break
		}
	}
	if text := dec.flush(); text != "" {
		r.sink.Output(r.id, text)
	}
	r.sink.Closed(r.id)
}

func (r *reader) logEnd(err error) {
	field := zap.Uint32("session_id", uint32(r.id))
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, os.ErrClosed), isHangup(err):
		r.logger.Debug("Terminal stream ended", field, zap.Error(err))
	default:
		r.logger.Warn("Error reading from terminal", field, zap.Error(err))
	}
}

// pump runs the reader and then reclaims the child. It is the body of the
// session's background goroutine.
func (s *Session) pump(r *reader) {
	defer close(s.done)

	r.run()
	s.alive.Store(false)
	r.recorder.SessionExited()

	err := s.cmd.Wait()
	s.procMu.Lock()
	s.reaped = true
	s.procMu.Unlock()

	if err != nil {
		r.logger.Debug("Shell exited", zap.Uint32("session_id", uint32(r.id)), zap.Error(err))
	}
}

func (s *Session) signal(fn func(*os.Process) error) error {
	s.procMu.Lock()
	defer s.procMu.Unlock()
	if s.reaped {
		return nil
	}
	return fn(s.cmd.Process)
}

// foregroundGroup returns the process group that owns the terminal, or 0 if
// it cannot be determined.
func (s *Session) foregroundGroup() int {
	pgid, err := foregroundGroup(s.ptmx)
	if err != nil {
		return 0
	}
	return pgid
}

// signalForeground signals a foreground job that is not the shell's own
// group, which signal already covers.
func (s *Session) signalForeground(pgid int, fn func(int) error) error {
	if pgid <= 0 {
		return nil
	}
	s.procMu.Lock()
	defer s.procMu.Unlock()
	if s.cmd.Process != nil && pgid == s.cmd.Process.Pid {
		return nil
	}
	return fn(pgid)
}

// terminate hangs up the shell and whatever job holds the terminal's
// foreground, then closes the master side. Closing the file alone does not
// wake a read or write already blocked on it, so the hangup is what actually
// ends them; if either group survives it for grace, it is killed.
func (s *Session) terminate(grace time.Duration, logger *zap.Logger) error {
	field := zap.Uint32("session_id", uint32(s.meta.ID))
	fg := s.foregroundGroup()
	if err := s.signal(hangup); err != nil {
		logger.Debug("Failed to hang up shell", field, zap.Error(err))
	}
	if err := s.signalForeground(fg, hangupGroup); err != nil {
		logger.Debug("Failed to hang up foreground job", field, zap.Int("pgid", fg), zap.Error(err))
	}
	closeErr := s.ptmx.Close()

	go func() {
		timer := time.NewTimer(grace)
		defer timer.Stop()
		select {
		case <-s.done:
		case <-timer.C:
			logger.Warn("Shell ignored hangup, killing process group", field)
			if err := s.signal(kill); err != nil {
				logger.Warn("Failed to kill shell", field, zap.Error(err))
			}
			if err := s.signalForeground(fg, killGroup); err != nil {
				logger.Warn("Failed to kill foreground job", field, zap.Int("pgid", fg), zap.Error(err))
			}
		}
	}()

	if closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
		return closeErr
	}
	return nil
}
