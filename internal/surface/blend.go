package surface

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// BlendMode selects how a layer is composited onto what lies beneath it.
// Every mode only ever brightens the backdrop.
type BlendMode uint8

const (
	BlendScreen BlendMode = iota
	BlendLighten
	BlendAdd
)

func (m BlendMode) String() string {
	switch m {
	case BlendScreen:
		return "screen"
	case BlendLighten:
		return "lighten"
	case BlendAdd:
		return "add"
	default:
		return fmt.Sprintf("BlendMode(%d)", uint8(m))
	}
}

// Valid reports whether m is a known mode.
func (m BlendMode) Valid() bool {
	return m <= BlendAdd
}

// ParseBlendMode parses a mode name as printed by String.
func ParseBlendMode(s string) (BlendMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "screen":
		return BlendScreen, nil
	case "lighten":
		return BlendLighten, nil
	case "add":
		return BlendAdd, nil
	default:
		return 0, fmt.Errorf("unknown blend mode %q (want screen, lighten or add)", s)
	}
}

// Over composites the premultiplied sample p onto the opaque backdrop c.
func (m BlendMode) Over(c colorful.Color, p Pixel) colorful.Color {
	if p.A <= 0 {
		return c
	}
	return colorful.Color{
		R: m.channel(c.R, float64(p.R), float64(p.A)),
		G: m.channel(c.G, float64(p.G), float64(p.A)),
		B: m.channel(c.B, float64(p.B), float64(p.A)),
	}.Clamped()
}

// channel blends one premultiplied source channel sp with alpha a onto the
// backdrop channel b.
func (m BlendMode) channel(b, sp, a float64) float64 {
	switch m {
	case BlendLighten:
		s := sp / a
		return b*(1-a) + a*math.Max(b, s)
	case BlendAdd:
		return math.Min(1, b+sp)
	default:
		// screen(b, s) = b + s - b*s, weighted by a with sp = s*a
		return b + sp*(1-b)
	}
}
