package fog

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/fogbank/internal/signals"
	"github.com/olivier-w/fogbank/internal/surface"
)

// State is the lifecycle state of a Handle.
type State int

const (
	Active State = iota
	Detached
	Destroyed
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Detached:
		return "detached"
	default:
		return "destroyed"
	}
}

// Tree is the host's visible content tree the fog surfaces live in.
type Tree interface {
	// Size is the viewport size in pixels.
	Size() (w, h int)
	Insert(l surface.Layer)
	Remove(l surface.Layer)
	Contains(l surface.Layer) bool
}

// Option configures New.
type Option func(*options)

type options struct {
	src Source
}

// WithSource routes every random draw through src.
func WithSource(src Source) Option {
	return func(o *options) { o.src = src }
}

// Handle is the host's grip on one fog instance. Every method is safe to
// call in any state; once destroyed, all of them are no-ops.
type Handle struct {
	sim   *Simulation
	tree  Tree
	sched scheduler
	state State

	// detachedForSwap is set when a page swap hid the fog, so only that
	// swap brings it back.
	detachedForSwap bool
	unsubscribe     []func()
}

// New validates cfg, builds the simulation at the tree's current size,
// registers its handlers on bus and inserts both surfaces into tree. The
// frame loop starts with Init.
func New(cfg Config, tree Tree, bus *signals.Bus, opts ...Option) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.src == nil {
		o.src = NewSource(time.Now().UnixNano())
	}

	w, h := tree.Size()
	sim, err := newSimulation(cfg, o.src, w, h)
	if err != nil {
		return nil, err
	}

	hd := &Handle{
		sim:   sim,
		tree:  tree,
		sched: newScheduler(cfg.TickRate),
	}
	hd.unsubscribe = []func(){
		bus.OnResize(func(s signals.Size) { hd.sim.Resize(s.Width, s.Height) }),
		bus.OnPointer(hd.sim.setPointer),
		bus.OnBeforeReplace(hd.beforeReplace),
		bus.OnAfterReplace(hd.afterReplace),
	}
	hd.insert()
	log.Printf("fog: started %d particles on %dx%d at %d fps", cfg.ParticleCount, w, h, cfg.TickRate)
	return hd, nil
}

// Init starts the frame loop. Calling it again restarts the loop without
// doubling the frame rate.
func (h *Handle) Init() tea.Cmd {
	if h.state == Destroyed {
		return nil
	}
	return h.sched.restart()
}

// Update runs one tick for this handle's frames and schedules the next one.
// Any other message is ignored.
func (h *Handle) Update(msg tea.Msg) tea.Cmd {
	frame, ok := msg.(FrameMsg)
	if !ok || !h.sched.accepts(frame) {
		return nil
	}
	h.sim.Tick()
	return h.sched.next()
}

// Tick advances the simulation by one step outside the frame loop.
func (h *Handle) Tick() {
	if h.state == Destroyed {
		return
	}
	h.sim.Tick()
}

// Attach puts the surfaces back into the tree. The simulation continues
// from where it was.
func (h *Handle) Attach() {
	if h.state != Detached {
		return
	}
	h.detachedForSwap = false
	h.insert()
}

// Detach takes the surfaces out of the tree. Particles keep moving while
// hidden.
func (h *Handle) Detach() {
	if h.state != Active {
		return
	}
	h.remove()
	h.state = Detached
}

// Destroy stops the frame loop, unregisters every handler and removes the
// surfaces. It is idempotent.
func (h *Handle) Destroy() {
	if h.state == Destroyed {
		return
	}
	h.sched.stop()
	for _, unsub := range h.unsubscribe {
		unsub()
	}
	h.unsubscribe = nil
	h.remove()
	h.state = Destroyed
	log.Printf("fog: destroyed after %d ticks", h.sim.Ticks())
}

func (h *Handle) beforeReplace() {
	if h.state == Active {
		h.Detach()
		h.detachedForSwap = true
	}
}

func (h *Handle) afterReplace() {
	if h.detachedForSwap {
		h.Attach()
	}
}

func (h *Handle) insert() {
	h.tree.Insert(h.sim.pair.Background)
	h.tree.Insert(h.sim.pair.Foreground)
	h.state = Active
}

func (h *Handle) remove() {
	h.tree.Remove(h.sim.pair.Background)
	h.tree.Remove(h.sim.pair.Foreground)
}

func (h *Handle) State() State { return h.state }

// Running reports whether the frame loop accepts frames.
func (h *Handle) Running() bool { return h.sched.running }

// Simulation exposes the simulation for inspection.
func (h *Handle) Simulation() *Simulation { return h.sim }
