package fog

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/fogbank/internal/signals"
	"github.com/olivier-w/fogbank/internal/surface"
)

// Layer is the surface a particle is drawn on. It is fixed at creation.
type Layer int

const (
	Background Layer = iota
	Foreground
)

func (l Layer) String() string {
	if l == Foreground {
		return "foreground"
	}
	return "background"
}

const (
	rotationSpeedRange = 0.002
	wobbleFrequency    = 0.01
	wobbleAmplitude    = 0.2
	repelScale         = 10
)

// blobStops fade a blob from an opaque core to a transparent rim.
var blobStops = []surface.Stop{
	{Offset: 0, Alpha: 1},
	{Offset: 0.6, Alpha: 0.5},
	{Offset: 1, Alpha: 0},
}

// env is the state every particle reads but never writes.
type env struct {
	cfg   Config
	color colorful.Color
	src   Source
	w, h  int
}

// Particle is one fog blob.
type Particle struct {
	env   *env
	layer Layer

	x, y          float64
	vx, vy        float64
	size          float64
	rotation      float64
	rotationSpeed float64
	baseOpacity   float64
	opacity       float64
	age           int
	lifespan      int
}

func newParticle(e *env, layer Layer) *Particle {
	p := &Particle{env: e, layer: layer}
	p.reset(true)
	return p
}

// reset redraws every randomized property. Position is always redrawn; on
// the initial population the age is also scattered over the lifespan so
// the first frames do not fade in all at once.
func (p *Particle) reset(initialPopulation bool) {
	cfg, src := &p.env.cfg, p.env.src

	p.x = uniform(src, 0, float64(p.env.w))
	p.y = uniform(src, 0, float64(p.env.h))
	p.vx = uniform(src, -0.5, 0.5)*cfg.Drift + cfg.WindX
	p.vy = uniform(src, -0.5, 0.5)*cfg.Drift + cfg.WindY
	p.size = cfg.BaseSize + src.Float64()*cfg.SizeVariation
	p.baseOpacity = (src.Float64()*0.5 + 0.5) * cfg.BaseOpacity
	p.rotation = uniform(src, 0, 2*math.Pi)
	p.rotationSpeed = (src.Float64() - 0.5) * rotationSpeedRange
	p.lifespan = uniformInt(src, cfg.MinLife, cfg.MaxLife)
	p.age = 0
	p.opacity = 0

	if initialPopulation {
		p.age = min(int(src.Float64()*float64(p.lifespan)), p.lifespan-1)
	}
}

// update advances the particle by one tick. A particle that reaches the end
// of its life is reset and does not move this tick.
func (p *Particle) update(ptr signals.Pointer) {
	p.age++
	if p.age >= p.lifespan {
		p.reset(false)
		return
	}

	cfg := &p.env.cfg
	p.opacity = p.baseOpacity * math.Sin(math.Pi*float64(p.age)/float64(p.lifespan))

	p.x += p.vx * cfg.Speed
	p.y += p.vy * cfg.Speed
	p.rotation += p.rotationSpeed
	p.x += math.Sin(float64(p.age)*wobbleFrequency) * wobbleAmplitude

	if ptr.Present {
		p.repel(ptr.Point)
	}
	p.wrap()
}

func (p *Particle) repel(at signals.Point) {
	cfg := &p.env.cfg
	dx, dy := p.x-at.X, p.y-at.Y
	d := math.Hypot(dx, dy)
	if d >= cfg.InteractionRadius {
		return
	}
	push := (1 - d/cfg.InteractionRadius) * cfg.InteractionForce * repelScale
	if d == 0 {
		p.x += push
		return
	}
	p.x += dx / d * push
	p.y += dy / d * push
}

// wrap teleports the particle to the opposite edge once it is fully past
// one, each axis on its own.
func (p *Particle) wrap() {
	half := p.size / 2
	w, h := float64(p.env.w), float64(p.env.h)

	if p.x < -half {
		p.x = w + half
	} else if p.x > w+half {
		p.x = -half
	}
	if p.y < -half {
		p.y = h + half
	} else if p.y > h+half {
		p.y = -half
	}
}

// draw paints the particle onto s. brightness is the draw-time multiplier,
// normally cfg.Brightness.
func (p *Particle) draw(s *surface.Surface, brightness float64) {
	alpha := p.opacity * brightness
	if alpha <= 0 {
		return
	}
	s.Paint(func(c *surface.Canvas) {
		c.Translate(p.x, p.y)
		c.Rotate(p.rotation)
		c.SetAlpha(alpha)
		c.FillRadial(p.size/2, p.env.color, blobStops)
	})
}

func (p *Particle) Layer() Layer { return p.layer }
func (p *Particle) Position() (x, y float64) { return p.x, p.y }
func (p *Particle) Velocity() (vx, vy float64) { return p.vx, p.vy }
func (p *Particle) Size() float64 { return p.size }
func (p *Particle) Rotation() float64 { return p.rotation }
func (p *Particle) Opacity() float64 { return p.opacity }
func (p *Particle) BaseOpacity() float64 { return p.baseOpacity }
func (p *Particle) Age() int { return p.age }
func (p *Particle) Lifespan() int { return p.lifespan }
