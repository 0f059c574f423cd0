package fog

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/fogbank/internal/surface"
)

// ErrInvalidConfig is wrapped by every error Validate returns.
var ErrInvalidConfig = errors.New("fog: invalid config")

// Config governs the look and motion of the fog. Sizes and distances are in
// viewport pixels, lifespans in ticks. A Config is copied into the
// simulation at construction and never changes afterwards.
type Config struct {
	ParticleCount int
	BaseSize      float64
	SizeVariation float64
	Color         string // hex, e.g. "#c8d6e5"
	BaseOpacity   float64
	Brightness    float64
	Speed         float64
	Drift         float64
	WindX         float64
	WindY         float64
	MinLife       int
	MaxLife       int

	InteractionRadius float64
	InteractionForce  float64

	TickRate int // frames per second

	BackgroundZ     int // must be below the host content (z < 0)
	ForegroundZ     int // must be above the host content (z > 0)
	ForegroundRatio float64

	Blend surface.BlendMode

	// Flicker modulates brightness with a slow random envelope. Nil keeps
	// brightness constant.
	Flicker *FlickerConfig
}

// DefaultConfig returns settings tuned for a terminal viewport, where one
// cell is one pixel wide and two pixels tall.
func DefaultConfig() Config {
	return Config{
		ParticleCount:     36,
		BaseSize:          18,
		SizeVariation:     16,
		Color:             "#c8d6e5",
		BaseOpacity:       0.3,
		Brightness:        1.4,
		Speed:             1,
		Drift:             0.4,
		WindX:             0.06,
		WindY:             -0.01,
		MinLife:           240,
		MaxLife:           540,
		InteractionRadius: 14,
		InteractionForce:  0.35,
		TickRate:          30,
		BackgroundZ:       -1,
		ForegroundZ:       1,
		ForegroundRatio:   0.35,
		Blend:             surface.BlendScreen,
	}
}

// Validate reports every out of range field at once.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.ParticleCount < 1 {
		bad("particle count must be at least 1, got %d", c.ParticleCount)
	}
	if !finite(c.BaseSize) || c.BaseSize <= 0 {
		bad("base size must be positive, got %v", c.BaseSize)
	}
	if !finite(c.SizeVariation) || c.SizeVariation < 0 {
		bad("size variation must not be negative, got %v", c.SizeVariation)
	}
	if _, err := colorful.Hex(c.Color); err != nil {
		bad("color %q is not a #rrggbb hex color", c.Color)
	}
	if !finite(c.BaseOpacity) || c.BaseOpacity <= 0 || c.BaseOpacity > 1 {
		bad("base opacity must be in (0, 1], got %v", c.BaseOpacity)
	}
	if !finite(c.Brightness) || c.Brightness < 0 {
		bad("brightness must not be negative, got %v", c.Brightness)
	}
	if !finite(c.Speed) || c.Speed < 0 {
		bad("speed must not be negative, got %v", c.Speed)
	}
	if !finite(c.Drift) || c.Drift < 0 {
		bad("drift must not be negative, got %v", c.Drift)
	}
	if !finite(c.WindX) || !finite(c.WindY) {
		bad("wind must be finite, got (%v, %v)", c.WindX, c.WindY)
	}
	if c.MinLife < 1 {
		bad("minimum lifespan must be at least 1 tick, got %d", c.MinLife)
	}
	if c.MaxLife < c.MinLife {
		bad("maximum lifespan %d is below minimum lifespan %d", c.MaxLife, c.MinLife)
	}
	if !finite(c.InteractionRadius) || c.InteractionRadius <= 0 {
		bad("interaction radius must be positive, got %v", c.InteractionRadius)
	}
	if !finite(c.InteractionForce) || c.InteractionForce < 0 {
		bad("interaction force must not be negative, got %v", c.InteractionForce)
	}
	if c.TickRate < 1 {
		bad("tick rate must be at least 1, got %d", c.TickRate)
	}
	if c.BackgroundZ >= 0 {
		bad("background z-index must be below the content (< 0), got %d", c.BackgroundZ)
	}
	if c.ForegroundZ <= 0 {
		bad("foreground z-index must be above the content (> 0), got %d", c.ForegroundZ)
	}
	if !finite(c.ForegroundRatio) || c.ForegroundRatio < 0 || c.ForegroundRatio > 1 {
		bad("foreground ratio must be in [0, 1], got %v", c.ForegroundRatio)
	}
	if !c.Blend.Valid() {
		bad("unknown blend mode %v", c.Blend)
	}
	if c.Flicker != nil {
		if err := c.Flicker.validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
