package wsbridge

import (
	"sync"
	"time"
)

// closeLatch is a single-use gate owned by one connection adapter. It is
// released exactly once, when the engine reports that the close handshake
// for the connection completed. Any number of waiters may block on it; it
// never resets.
type closeLatch struct {
	done chan struct{}
	once sync.Once
}

func newCloseLatch() *closeLatch {
	return &closeLatch{done: make(chan struct{})}
}

// release opens the gate. Subsequent calls have no effect.
func (l *closeLatch) release() {
	l.once.Do(func() {
		close(l.done)
	})
}

// releasedChan returns a channel closed once the latch has been released.
func (l *closeLatch) releasedChan() <-chan struct{} {
	return l.done
}

// wait blocks until the latch releases or d elapses, whichever comes first.
// It reports whether the release was observed.
func (l *closeLatch) wait(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-l.done:
		return true
	case <-timer.C:
		return false
	}
}
