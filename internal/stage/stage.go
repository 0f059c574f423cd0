package stage

import (
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"github.com/olivier-w/fogbank/internal/surface"
)

// PixelsPerRow is how many vertically stacked pixels one terminal row shows.
const PixelsPerRow = 2

// DefaultBackground is the page color behind everything.
var DefaultBackground = colorful.Color{R: 0.055, G: 0.067, B: 0.09}

// Stage is the host's visible content tree: z-ordered raster layers around
// a grid of host content at z = 0. Layers with a negative z are drawn
// behind the content, the rest in front of it.
type Stage struct {
	cols, rows int
	layers     []surface.Layer
	content    *Grid
	background colorful.Color
	profile    termenv.Profile
	r          renderer
}

// Option configures a Stage.
type Option func(*Stage)

// WithProfile overrides the detected terminal color profile.
func WithProfile(p termenv.Profile) Option {
	return func(s *Stage) { s.profile = p }
}

// WithBackground sets the page color.
func WithBackground(c colorful.Color) Option {
	return func(s *Stage) { s.background = c }
}

// New returns an empty stage using the terminal's color profile.
func New(opts ...Option) *Stage {
	s := &Stage{
		background: DefaultBackground,
		profile:    termenv.EnvColorProfile(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resize sets the stage to cols×rows terminal cells.
func (s *Stage) Resize(cols, rows int) {
	s.cols = max(cols, 0)
	s.rows = max(rows, 0)
}

// Cells returns the stage size in terminal cells.
func (s *Stage) Cells() (cols, rows int) {
	return s.cols, s.rows
}

// Size returns the stage size in pixels.
func (s *Stage) Size() (w, h int) {
	return s.cols, s.rows * PixelsPerRow
}

// CellToPixel maps the terminal cell (col, row) to the pixel at its center.
func CellToPixel(col, row int) (x, y float64) {
	return float64(col) + 0.5, float64(row*PixelsPerRow) + PixelsPerRow/2
}

// SetContent replaces the host content grid.
func (s *Stage) SetContent(g *Grid) {
	s.content = g
}

func (s *Stage) Content() *Grid {
	return s.content
}

// Insert adds l to the tree. Inserting a layer that is already present is a
// no-op.
func (s *Stage) Insert(l surface.Layer) {
	if s.Contains(l) {
		return
	}
	s.layers = append(s.layers, l)
	sort.SliceStable(s.layers, func(i, j int) bool {
		return s.layers[i].ZIndex() < s.layers[j].ZIndex()
	})
}

// Remove takes l out of the tree if present.
func (s *Stage) Remove(l surface.Layer) {
	for i, have := range s.layers {
		if have == l {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			return
		}
	}
}

func (s *Stage) Contains(l surface.Layer) bool {
	for _, have := range s.layers {
		if have == l {
			return true
		}
	}
	return false
}

// Layers returns the layers in stacking order.
func (s *Stage) Layers() []surface.Layer {
	out := make([]surface.Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// behind composites the layers under the content onto the page color.
func (s *Stage) behind(x, y int) colorful.Color {
	c := s.background
	for _, l := range s.layers {
		if l.ZIndex() >= 0 {
			break
		}
		c = l.Blend().Over(c, l.At(x, y))
	}
	return c
}

// front composites the layers above the content onto c.
func (s *Stage) front(c colorful.Color, x, y int) colorful.Color {
	for _, l := range s.layers {
		if l.ZIndex() < 0 {
			continue
		}
		c = l.Blend().Over(c, l.At(x, y))
	}
	return c
}

// View composes the stage into a terminal frame.
func (s *Stage) View() string {
	return s.r.render(s)
}
