package terminal

import (
	"math"
	"sync/atomic"
)

// MaxSessionID is the last id the allocator hands out. The two values above
// it are never used so the counter cannot wrap.
const MaxSessionID SessionID = math.MaxUint32 - 2

// idAllocator hands out strictly increasing session ids starting at 1. It
// refuses to wrap: once next passes MaxSessionID every call fails.
type idAllocator struct {
	next atomic.Uint32
}

func newIDAllocator(start SessionID) *idAllocator {
	if start == 0 {
		start = 1
	}
	a := &idAllocator{}
	a.next.Store(uint32(start))
	return a
}

// allocate reserves the next id. ok is false when the space is exhausted.
func (a *idAllocator) allocate() (id SessionID, ok bool) {
	for {
		cur := a.next.Load()
		if SessionID(cur) > MaxSessionID {
			return 0, false
		}
		if a.next.CompareAndSwap(cur, cur+1) {
			return SessionID(cur), true
		}
	}
}

