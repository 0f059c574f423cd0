package fog

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// FrameMsg asks a fog handle to run one tick. Frames carry the id of the
// handle that scheduled them and a generation tag, so a handle only acts on
// its own frames and drops frames scheduled before it was last restarted or
// stopped.
type FrameMsg struct {
	Time time.Time
	ID   int
	tag  int
}

// scheduler is the frame loop of one handle, driven by bubbletea: every
// accepted frame schedules exactly one successor.
type scheduler struct {
	id       int
	tag      int
	interval time.Duration
	running  bool
}

func newScheduler(tickRate int) scheduler {
	return scheduler{
		id:       nextID(),
		interval: time.Second / time.Duration(tickRate),
		running:  true,
	}
}

// restart invalidates frames in flight and schedules a fresh one.
func (s *scheduler) restart() tea.Cmd {
	if !s.running {
		return nil
	}
	s.tag++
	return s.next()
}

func (s *scheduler) stop() {
	s.running = false
	s.tag++
}

func (s *scheduler) accepts(msg FrameMsg) bool {
	return s.running && msg.ID == s.id && msg.tag == s.tag
}

func (s *scheduler) next() tea.Cmd {
	id, tag := s.id, s.tag
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return FrameMsg{Time: t, ID: id, tag: tag}
	})
}
