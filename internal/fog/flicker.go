package fog

import (
	"fmt"
	"math"
)

// FlickerConfig shapes a slow random brightness envelope. Every period the
// envelope picks a new target in [Base-Amp, Base+Amp] and eases toward it,
// rising with time constant TauUp and falling with TauDown (seconds), never
// faster than MaxRate per second.
type FlickerConfig struct {
	Base      float64
	Amp       float64
	MinPeriod float64
	MaxPeriod float64
	TauUp     float64
	TauDown   float64
	MaxRate   float64
}

// DefaultFlicker is a candle-like breathing that stays within a few percent
// of full brightness.
func DefaultFlicker() *FlickerConfig {
	return &FlickerConfig{
		Base:      0.94,
		Amp:       0.05,
		MinPeriod: 4,
		MaxPeriod: 8,
		TauUp:     0.9,
		TauDown:   0.4,
		MaxRate:   0.15,
	}
}

func (f *FlickerConfig) validate() error {
	switch {
	case !finite(f.Base) || f.Base <= 0:
		return fmt.Errorf("flicker base must be positive, got %v", f.Base)
	case !finite(f.Amp) || f.Amp < 0 || f.Amp >= f.Base:
		return fmt.Errorf("flicker amplitude must be in [0, base), got %v", f.Amp)
	case !finite(f.MinPeriod) || f.MinPeriod <= 0 || !finite(f.MaxPeriod) || f.MaxPeriod < f.MinPeriod:
		return fmt.Errorf("flicker period must satisfy 0 < min <= max, got [%v, %v]", f.MinPeriod, f.MaxPeriod)
	case !finite(f.TauUp) || f.TauUp <= 0 || !finite(f.TauDown) || f.TauDown <= 0:
		return fmt.Errorf("flicker time constants must be positive, got up=%v down=%v", f.TauUp, f.TauDown)
	case !finite(f.MaxRate) || f.MaxRate < 0:
		return fmt.Errorf("flicker max rate must not be negative, got %v", f.MaxRate)
	}
	return nil
}

type flicker struct {
	cfg    FlickerConfig
	src    Source
	val    float64
	phase  float64
	dur    float64
	target float64
}

func newFlicker(cfg FlickerConfig, src Source) *flicker {
	f := &flicker{cfg: cfg, src: src, val: cfg.Base}
	f.dur = uniform(src, cfg.MinPeriod, cfg.MaxPeriod)
	f.target = f.newTarget()
	return f
}

func (f *flicker) newTarget() float64 {
	return f.cfg.Base + f.cfg.Amp*(f.src.Float64()*2-1)
}

// step advances the envelope by dt seconds and returns the new value.
func (f *flicker) step(dt float64) float64 {
	if dt <= 0 {
		return f.val
	}
	f.phase += dt
	if f.phase >= f.dur {
		f.phase = 0
		f.dur = uniform(f.src, f.cfg.MinPeriod, f.cfg.MaxPeriod)
		f.target = f.newTarget()
	}

	tau := f.cfg.TauDown
	if f.target > f.val {
		tau = f.cfg.TauUp
	}
	next := f.val + (1-math.Exp(-dt/tau))*(f.target-f.val)

	if limit := f.cfg.MaxRate * dt; limit > 0 {
		next = math.Max(f.val-limit, math.Min(f.val+limit, next))
	}
	f.val = next
	return f.val
}

// gain is the brightness multiplier relative to the resting level.
func (f *flicker) gain() float64 {
	return f.val / f.cfg.Base
}
