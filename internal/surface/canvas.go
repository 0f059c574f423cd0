package surface

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Matrix is a 2D affine transform:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the transform that leaves points unchanged.
var Identity = Matrix{A: 1, D: 1}

// Apply maps a local point to device space.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

func (m Matrix) mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Matrix) invert() (Matrix, bool) {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Matrix{}, false
	}
	inv := 1 / det
	return Matrix{
		A: m.D * inv,
		B: -m.B * inv,
		C: -m.C * inv,
		D: m.A * inv,
		E: (m.C*m.F - m.D*m.E) * inv,
		F: (m.B*m.E - m.A*m.F) * inv,
	}, true
}

// Stop is one radial gradient stop. Offset runs from 0 (center) to 1 (edge).
type Stop struct {
	Offset float64
	Alpha  float64
}

type canvasState struct {
	m     Matrix
	alpha float64
}

// Canvas draws onto a Surface. It is only reachable through Surface.Paint.
type Canvas struct {
	s     *Surface
	st    canvasState
	stack []canvasState
}

func newCanvas(s *Surface) Canvas {
	return Canvas{s: s, st: canvasState{m: Identity, alpha: 1}}
}

func (c *Canvas) save() {
	c.stack = append(c.stack, c.st)
}

func (c *Canvas) restore() {
	n := len(c.stack)
	if n == 0 {
		return
	}
	c.st = c.stack[n-1]
	c.stack = c.stack[:n-1]
}

// Translate moves the origin by (x, y) in the current coordinate space.
func (c *Canvas) Translate(x, y float64) {
	c.st.m = c.st.m.mul(Matrix{A: 1, D: 1, E: x, F: y})
}

// Rotate rotates the coordinate space by theta radians.
func (c *Canvas) Rotate(theta float64) {
	sin, cos := math.Sincos(theta)
	c.st.m = c.st.m.mul(Matrix{A: cos, B: sin, C: -sin, D: cos})
}

// SetAlpha sets the global alpha multiplier, clamped to [0, 1].
func (c *Canvas) SetAlpha(a float64) {
	c.st.alpha = math.Max(0, math.Min(1, a))
}

func (c *Canvas) Alpha() float64    { return c.st.alpha }
func (c *Canvas) Transform() Matrix { return c.st.m }

// FillRadial fills a disc of the given radius centered on the local origin
// with col, fading through the gradient stops toward the edge.
func (c *Canvas) FillRadial(radius float64, col colorful.Color, stops []Stop) {
	if radius <= 0 || c.st.alpha <= 0 || len(stops) == 0 {
		return
	}
	inv, ok := c.st.m.invert()
	if !ok {
		return
	}
	cx, cy := c.st.m.Apply(0, 0)
	// Rotation and translation keep the disc's extent, so the device-space
	// bounding box is the center plus or minus the radius.
	x0 := max(int(math.Floor(cx-radius)), 0)
	y0 := max(int(math.Floor(cy-radius)), 0)
	x1 := min(int(math.Ceil(cx+radius)), c.s.w-1)
	y1 := min(int(math.Ceil(cy+radius)), c.s.h-1)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			lx, ly := inv.Apply(float64(x)+0.5, float64(y)+0.5)
			d := math.Hypot(lx, ly) / radius
			if d >= 1 {
				continue
			}
			a := gradientAlpha(stops, d) * c.st.alpha
			if a <= 0 {
				continue
			}
			c.s.over(x, y, Pixel{
				R: float32(col.R * a),
				G: float32(col.G * a),
				B: float32(col.B * a),
				A: float32(a),
			})
		}
	}
}

// gradientAlpha linearly interpolates stop alphas at offset t. Stops are
// expected in increasing offset order.
func gradientAlpha(stops []Stop, t float64) float64 {
	if t <= stops[0].Offset {
		return stops[0].Alpha
	}
	for i := 1; i < len(stops); i++ {
		lo, hi := stops[i-1], stops[i]
		if t <= hi.Offset {
			span := hi.Offset - lo.Offset
			if span <= 0 {
				return hi.Alpha
			}
			f := (t - lo.Offset) / span
			return lo.Alpha + (hi.Alpha-lo.Alpha)*f
		}
	}
	return stops[len(stops)-1].Alpha
}
