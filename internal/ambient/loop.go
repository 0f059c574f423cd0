package ambient

import (
	"errors"
	"io"
	"sync"
)

// loopReader replays src from the start every time it runs out, and
// tracks the position within the current pass.
type loopReader struct {
	src io.ReadSeeker

	mu    sync.Mutex
	pos   int64
	loops int
}

func (l *loopReader) Read(p []byte) (int, error) {
	// A second empty read right after rewinding means the source is empty.
	for range 2 {
		n, err := l.src.Read(p)
		if n > 0 {
			l.mu.Lock()
			l.pos += int64(n)
			l.mu.Unlock()
			return n, nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		if _, err := l.src.Seek(0, io.SeekStart); err != nil {
			return 0, err
		}
		l.mu.Lock()
		l.pos = 0
		l.loops++
		l.mu.Unlock()
	}
	return 0, io.EOF
}

// Pos returns the byte offset within the current pass.
func (l *loopReader) Pos() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pos
}

// Loops returns how many times playback wrapped around.
func (l *loopReader) Loops() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loops
}
