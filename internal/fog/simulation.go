package fog

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/fogbank/internal/signals"
	"github.com/olivier-w/fogbank/internal/surface"
)

// Simulation owns the surface pair, the particles and the pointer/viewport
// state. It is not safe for concurrent use; the host drives it from a
// single goroutine.
type Simulation struct {
	env       *env
	pair      *surface.Pair
	particles []*Particle
	pointer   signals.Pointer
	flicker   *flicker
	ticks     uint64
}

func newSimulation(cfg Config, src Source, w, h int) (*Simulation, error) {
	col, err := colorful.Hex(cfg.Color)
	if err != nil {
		return nil, fmt.Errorf("parse fog color: %w", err)
	}
	e := &env{cfg: cfg, color: col, src: src, w: w, h: h}
	sim := &Simulation{
		env:       e,
		pair:      surface.NewPair(w, h, cfg.BackgroundZ, cfg.ForegroundZ, cfg.Blend),
		particles: make([]*Particle, 0, cfg.ParticleCount),
	}
	for range cfg.ParticleCount {
		layer := Background
		if src.Float64() < cfg.ForegroundRatio {
			layer = Foreground
		}
		sim.particles = append(sim.particles, newParticle(e, layer))
	}
	if cfg.Flicker != nil {
		sim.flicker = newFlicker(*cfg.Flicker, src)
	}
	return sim, nil
}

// Tick clears both surfaces, then updates and draws every particle on its
// layer's surface.
func (s *Simulation) Tick() {
	s.ticks++
	s.pair.Clear()

	brightness := s.env.cfg.Brightness
	if s.flicker != nil {
		s.flicker.step(1 / float64(s.env.cfg.TickRate))
		brightness *= s.flicker.gain()
	}

	for _, p := range s.particles {
		p.update(s.pointer)
		p.draw(s.surfaceFor(p.layer), brightness)
	}
}

func (s *Simulation) surfaceFor(l Layer) *surface.Surface {
	if l == Foreground {
		return s.pair.Foreground
	}
	return s.pair.Background
}

// Resize adopts a new viewport. Particles keep their positions and wrap
// into the new bounds on their next update.
func (s *Simulation) Resize(w, h int) {
	s.env.w, s.env.h = w, h
	s.pair.Resize(w, h)
}

// MovePointer stores the latest pointer position verbatim.
func (s *Simulation) MovePointer(x, y float64) {
	s.pointer = signals.Pointer{Point: signals.Point{X: x, Y: y}, Present: true}
}

// ClearPointer disables the interaction force until the next move.
func (s *Simulation) ClearPointer() {
	s.pointer = signals.Pointer{}
}

func (s *Simulation) setPointer(p signals.Pointer) {
	if !p.Present {
		s.ClearPointer()
		return
	}
	s.MovePointer(p.X, p.Y)
}

// Pointer returns the stored pointer state.
func (s *Simulation) Pointer() signals.Pointer { return s.pointer }

// Particles returns the particle collection in draw order. Callers must not
// retain it across ticks.
func (s *Simulation) Particles() []*Particle { return s.particles }

// Surfaces returns the background and foreground surfaces.
func (s *Simulation) Surfaces() *surface.Pair { return s.pair }

// Viewport returns the current viewport size in pixels.
func (s *Simulation) Viewport() (w, h int) { return s.env.w, s.env.h }

// Ticks counts the ticks run so far.
func (s *Simulation) Ticks() uint64 { return s.ticks }
