package signals

import "sync"

// Latest is a single-slot mailbox. Writers overwrite whatever has not been
// taken yet, so a slow reader only ever sees the most recent value.
type Latest[T any] struct {
	mu    sync.Mutex
	v     T
	fresh bool
}

// Store replaces the pending value.
func (l *Latest[T]) Store(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.v = v
	l.fresh = true
}

// Take returns the pending value and clears it. ok is false if nothing was
// stored since the last Take.
func (l *Latest[T]) Take() (v T, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.fresh {
		return v, false
	}
	l.fresh = false
	return l.v, true
}
