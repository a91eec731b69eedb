package terminal

import "sync"

// registry is the single source of truth for which sessions exist. One
// mutex guards the whole map. Metadata is touched only through with, inside
// the critical section; get hands out the Session for writes, which may
// block and so run outside it.
type registry struct {
	mu       sync.Mutex
	sessions map[SessionID]*Session
	closed   bool
}

func newRegistry() *registry {
	return &registry{sessions: make(map[SessionID]*Session)}
}

// insert registers s. It refuses once drain has run.
func (r *registry) insert(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.sessions[s.meta.ID] = s
	return true
}

func (r *registry) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *registry) get(id SessionID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// remove deletes the entry and hands ownership of the Session to the caller.
func (r *registry) remove(id SessionID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

// with runs fn on the session while holding the lock. fn must not block; a
// single ioctl is fine.
func (r *registry) with(id SessionID, fn func(*Session) error) (found bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false, nil
	}
	return true, fn(s)
}

func (r *registry) metadata() []Metadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Metadata, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.meta)
	}
	return out
}

func (r *registry) infos() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Info, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.info())
	}
	return out
}

// drain empties the registry, closes it to further inserts and returns
// everything that was in it.
func (r *registry) drain() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	out := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		out = append(out, s)
		delete(r.sessions, id)
	}
	return out
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
