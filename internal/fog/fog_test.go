package fog

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/fogbank/internal/signals"
	"github.com/olivier-w/fogbank/internal/surface"
)

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

// scriptSource returns the scripted values in order, then fallback forever.
type scriptSource struct {
	values   []float64
	fallback float64
}

func (s *scriptSource) Float64() float64 {
	if len(s.values) == 0 {
		return s.fallback
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v
}

type fakeTree struct {
	w, h   int
	layers []surface.Layer
}

func (t *fakeTree) Size() (int, int) { return t.w, t.h }

func (t *fakeTree) Insert(l surface.Layer) {
	if !t.Contains(l) {
		t.layers = append(t.layers, l)
	}
}

func (t *fakeTree) Remove(l surface.Layer) {
	for i, have := range t.layers {
		if have == l {
			t.layers = append(t.layers[:i], t.layers[i+1:]...)
			return
		}
	}
}

func (t *fakeTree) Contains(l surface.Layer) bool {
	for _, have := range t.layers {
		if have == l {
			return true
		}
	}
	return false
}

func newTestHandle(t *testing.T, cfg Config, src Source) (*Handle, *fakeTree, *signals.Bus) {
	t.Helper()
	tree := &fakeTree{w: 100, h: 60}
	bus := signals.NewBus()
	h, err := New(cfg, tree, bus, WithSource(src))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h, tree, bus
}

// testParticle builds a particle with no motion of its own.
func testParticle(cfg Config) *Particle {
	e := &env{cfg: cfg, src: constSource(0.5), w: 100, h: 60}
	return &Particle{
		env:         e,
		x:           50,
		y:           30,
		size:        10,
		baseOpacity: 0.3,
		age:         0,
		lifespan:    1000,
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected default config to be valid, got %v", err)
	}
}

func TestValidateReportsEveryBadField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinLife = -1
	cfg.InteractionRadius = 0
	cfg.Color = "fog"
	cfg.BackgroundZ = 2

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	for _, want := range []string{"minimum lifespan", "interaction radius", "color", "background z-index"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %q, got %v", want, err)
		}
	}
}

func TestValidateRejectsNaN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindX = math.NaN()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected NaN wind to be rejected")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLife = cfg.MinLife - 1
	bus := signals.NewBus()
	h, err := New(cfg, &fakeTree{w: 10, h: 10}, bus)
	if err == nil || h != nil {
		t.Fatalf("expected construction to fail, got handle=%v err=%v", h, err)
	}
	if bus.Handlers() != 0 {
		t.Fatalf("expected no handlers left behind, got %d", bus.Handlers())
	}
}

func TestAgeStaysBelowLifespan(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 50
	cfg.MinLife = 3
	cfg.MaxLife = 7
	h, _, _ := newTestHandle(t, cfg, NewSource(7))

	for tick := 0; tick < 200; tick++ {
		h.Tick()
		for i, p := range h.Simulation().Particles() {
			if p.Age() < 0 || p.Age() >= p.Lifespan() {
				t.Fatalf("tick %d particle %d: age %d outside [0, %d)", tick, i, p.Age(), p.Lifespan())
			}
			if p.Lifespan() < cfg.MinLife || p.Lifespan() > cfg.MaxLife {
				t.Fatalf("tick %d particle %d: lifespan %d outside [%d, %d]", tick, i, p.Lifespan(), cfg.MinLife, cfg.MaxLife)
			}
		}
	}
}

func TestOpacityFollowsSineHump(t *testing.T) {
	p := testParticle(DefaultConfig())
	p.lifespan = 10

	for age := 1; age < 10; age++ {
		p.age = age - 1
		p.update(signals.Pointer{})
		want := p.baseOpacity * math.Sin(math.Pi*float64(age)/10)
		if math.Abs(p.Opacity()-want) > 1e-12 {
			t.Fatalf("age %d: expected opacity %v, got %v", age, want, p.Opacity())
		}
		if p.Opacity() <= 0 {
			t.Fatalf("age %d: expected positive opacity", age)
		}
	}

	p.age = 9
	p.update(signals.Pointer{})
	if p.Age() != 0 || p.Opacity() != 0 {
		t.Fatalf("expected reset particle with zero opacity, got age %d opacity %v", p.Age(), p.Opacity())
	}
}

func TestWrapAroundLeftEdge(t *testing.T) {
	p := testParticle(DefaultConfig())
	p.x = -p.size/2 - 1

	p.update(signals.Pointer{})

	if want := 100 + p.size/2; p.x != want {
		t.Fatalf("expected x to wrap to %v, got %v", want, p.x)
	}
	if p.y != 30 {
		t.Fatalf("expected y untouched, got %v", p.y)
	}
}

func TestWrapAroundRightAndVertical(t *testing.T) {
	p := testParticle(DefaultConfig())
	p.x = 100 + p.size/2 + 1
	p.y = -p.size/2 - 1

	p.update(signals.Pointer{})

	if want := -p.size / 2; p.x != want {
		t.Fatalf("expected x to wrap to %v, got %v", want, p.x)
	}
	if want := 60 + p.size/2; p.y != want {
		t.Fatalf("expected y to wrap to %v, got %v", want, p.y)
	}
}

func TestPointerRepelsWithinRadius(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InteractionRadius = 20
	cfg.InteractionForce = 0.5

	for _, d := range []float64{2, 5, 10, 19} {
		free := testParticle(cfg)
		pushed := testParticle(cfg)

		free.update(signals.Pointer{})
		ptr := signals.Pointer{Point: signals.Point{X: free.x - d, Y: 30}, Present: true}
		pushed.update(ptr)

		want := (1 - d/cfg.InteractionRadius) * cfg.InteractionForce * 10
		got := pushed.x - free.x
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("d=%v: expected push %v, got %v", d, want, got)
		}
		if pushed.y != free.y {
			t.Fatalf("d=%v: expected no vertical push, got %v vs %v", d, pushed.y, free.y)
		}
	}
}

func TestPointerOutsideRadiusHasNoEffect(t *testing.T) {
	cfg := DefaultConfig()
	for _, d := range []float64{cfg.InteractionRadius, cfg.InteractionRadius + 5} {
		free := testParticle(cfg)
		near := testParticle(cfg)
		near.update(signals.Pointer{Point: signals.Point{X: 50, Y: 30 + d}, Present: true})
		free.update(signals.Pointer{})
		if near.x != free.x || near.y != free.y {
			t.Fatalf("d=%v: expected no interaction, got (%v,%v) vs (%v,%v)", d, near.x, near.y, free.x, free.y)
		}
	}
}

func TestPointerOnParticlePushesAlongX(t *testing.T) {
	cfg := DefaultConfig()
	p := testParticle(cfg)
	// The wobble moves the particle before the force applies, so put the
	// pointer where the particle will be.
	ptr := signals.Pointer{Point: signals.Point{X: 50 + math.Sin(0.01)*0.2, Y: 30}, Present: true}
	p.update(ptr)

	want := ptr.X + cfg.InteractionForce*10
	if math.Abs(p.x-want) > 1e-9 {
		t.Fatalf("expected x %v, got %v", want, p.x)
	}
}

func TestForegroundRatioConverges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 5000
	cfg.ForegroundRatio = 0.35
	h, _, _ := newTestHandle(t, cfg, NewSource(42))

	fg := 0
	for _, p := range h.Simulation().Particles() {
		if p.Layer() == Foreground {
			fg++
		}
	}
	ratio := float64(fg) / float64(cfg.ParticleCount)
	if math.Abs(ratio-cfg.ForegroundRatio) > 0.03 {
		t.Fatalf("expected foreground ratio near %v, got %v", cfg.ForegroundRatio, ratio)
	}
}

func TestInitialPopulationScattersAge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 20
	h, _, _ := newTestHandle(t, cfg, NewSource(3))

	ages := map[int]bool{}
	for _, p := range h.Simulation().Particles() {
		ages[p.Age()] = true
	}
	if len(ages) < 2 {
		t.Fatalf("expected scattered initial ages, got %v", ages)
	}
}

func TestTickDrawsOnAssignedLayerOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 1
	cfg.MinLife, cfg.MaxLife = 10, 10
	cfg.ForegroundRatio = 1
	h, _, _ := newTestHandle(t, cfg, constSource(0.5))

	h.Tick()

	pair := h.Simulation().Surfaces()
	if px := pair.Foreground.At(50, 30); px.A <= 0 {
		t.Fatalf("expected particle drawn on foreground, got %+v", px)
	}
	w, hh := pair.Background.Size()
	for y := 0; y < hh; y++ {
		for x := 0; x < w; x++ {
			if px := pair.Background.At(x, y); px.A != 0 {
				t.Fatalf("expected empty background, got %+v at (%d,%d)", px, x, y)
			}
		}
	}
}

func TestTickClearsSurfacesFirst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 1
	cfg.MinLife, cfg.MaxLife = 10, 10
	cfg.ForegroundRatio = 0
	h, _, _ := newTestHandle(t, cfg, constSource(0.5))

	bg := h.Simulation().Surfaces().Background
	bg.Paint(func(c *surface.Canvas) {
		c.Translate(2, 2)
		c.FillRadial(2, colorful.Color{R: 1, G: 1, B: 1}, blobStops)
	})
	h.Tick()

	if px := bg.At(2, 2); px.A != 0 {
		t.Fatalf("expected stale pixels cleared, got %+v", px)
	}
}

func TestEndToEndConstantSourceResetsAtEndOfLife(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 1
	cfg.MinLife, cfg.MaxLife = 10, 10
	h, _, _ := newTestHandle(t, cfg, constSource(0.5))
	p := h.Simulation().Particles()[0]

	// The constant source scatters the initial age to the middle of life.
	if p.Age() != 5 {
		t.Fatalf("expected initial age 5, got %d", p.Age())
	}
	for i := 0; i < 5; i++ {
		h.Tick()
	}
	assertFreshReset(t, p, cfg)

	for i := 0; i < 5; i++ {
		h.Tick()
	}
	if p.Age() != 5 {
		t.Fatalf("expected age 5 after 10 ticks, got %d", p.Age())
	}
}

func TestEndToEndTenTicksFromBirth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 1
	cfg.MinLife, cfg.MaxLife = 10, 10
	// Layer, x, y, vx, vy, size, opacity, rotation, rotation speed and
	// lifespan draw 0.5; the initial age draws 0.
	src := &scriptSource{
		values:   []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0},
		fallback: 0.5,
	}
	h, _, _ := newTestHandle(t, cfg, src)
	p := h.Simulation().Particles()[0]
	if p.Age() != 0 {
		t.Fatalf("expected initial age 0, got %d", p.Age())
	}

	for i := 0; i < 10; i++ {
		h.Tick()
	}
	assertFreshReset(t, p, cfg)
}

func assertFreshReset(t *testing.T, p *Particle, cfg Config) {
	t.Helper()
	if p.Age() != 0 {
		t.Fatalf("expected age 0 after reset, got %d", p.Age())
	}
	if x, y := p.Position(); x != 50 || y != 30 {
		t.Fatalf("expected position (50, 30), got (%v, %v)", x, y)
	}
	if vx, vy := p.Velocity(); vx != cfg.WindX || vy != cfg.WindY {
		t.Fatalf("expected velocity (%v, %v), got (%v, %v)", cfg.WindX, cfg.WindY, vx, vy)
	}
	if want := cfg.BaseSize + 0.5*cfg.SizeVariation; p.Size() != want {
		t.Fatalf("expected size %v, got %v", want, p.Size())
	}
	if want := 0.75 * cfg.BaseOpacity; math.Abs(p.BaseOpacity()-want) > 1e-12 {
		t.Fatalf("expected base opacity %v, got %v", want, p.BaseOpacity())
	}
	if p.Rotation() != math.Pi {
		t.Fatalf("expected rotation pi, got %v", p.Rotation())
	}
	if p.Lifespan() != 10 {
		t.Fatalf("expected lifespan 10, got %d", p.Lifespan())
	}
	if p.Layer() != Background {
		t.Fatalf("expected layer to be kept, got %v", p.Layer())
	}
}
