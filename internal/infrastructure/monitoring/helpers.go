package monitoring

import "github.com/GriffinCanCode/ptyhub/internal/terminal"

var _ terminal.Recorder = (*Metrics)(nil)

// SessionOpened implements terminal.Recorder.
func (m *Metrics) SessionOpened() {
	m.SessionsCreated.Inc()
	m.SessionsActive.Inc()
}

// SessionClosed implements terminal.Recorder.
func (m *Metrics) SessionClosed() {
	m.SessionsClosed.Inc()
	m.SessionsActive.Dec()
}

// SessionExited implements terminal.Recorder.
func (m *Metrics) SessionExited() {
	m.SessionsExited.Inc()
}

// SpawnFailed implements terminal.Recorder.
func (m *Metrics) SpawnFailed() {
	m.SpawnFailures.Inc()
}

// BytesRead implements terminal.Recorder.
func (m *Metrics) BytesRead(n int) {
	m.TerminalBytes.WithLabelValues("out").Add(float64(n))
}

// BytesWritten implements terminal.Recorder.
func (m *Metrics) BytesWritten(n int) {
	m.TerminalBytes.WithLabelValues("in").Add(float64(n))
}
