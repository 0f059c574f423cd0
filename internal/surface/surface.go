package surface

// Pixel is a premultiplied RGBA sample, all channels in [0, 1].
type Pixel struct {
	R, G, B, A float32
}

// Layer is a raster the stage composites around the host content.
// Layers are never hit-tested; pointer input always reaches the host.
type Layer interface {
	Name() string
	ZIndex() int
	Size() (w, h int)
	At(x, y int) Pixel
	Blend() BlendMode
}

// Surface is a software raster target with a persistent drawing canvas.
type Surface struct {
	name   string
	w, h   int
	pix    []Pixel
	z      int
	blend  BlendMode
	canvas Canvas
}

// New allocates a cleared surface of w×h pixels stacked at z.
func New(name string, w, h, z int, blend BlendMode) *Surface {
	s := &Surface{name: name, z: z, blend: blend}
	s.canvas = newCanvas(s)
	s.Resize(w, h)
	return s
}

func (s *Surface) Name() string     { return s.name }
func (s *Surface) ZIndex() int      { return s.z }
func (s *Surface) Blend() BlendMode { return s.blend }

func (s *Surface) Size() (w, h int) {
	return s.w, s.h
}

// Resize changes the raster dimensions. The contents are cleared.
func (s *Surface) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	s.w, s.h = w, h
	if cap(s.pix) >= w*h {
		s.pix = s.pix[:w*h]
	} else {
		s.pix = make([]Pixel, w*h)
	}
	s.Clear()
}

// Clear resets every pixel to fully transparent.
func (s *Surface) Clear() {
	clear(s.pix)
}

// At returns the pixel at (x, y), or a transparent pixel when out of bounds.
func (s *Surface) At(x, y int) Pixel {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return Pixel{}
	}
	return s.pix[y*s.w+x]
}

// over composites a premultiplied sample onto (x, y) with source-over.
func (s *Surface) over(x, y int, p Pixel) {
	i := y*s.w + x
	d := s.pix[i]
	k := 1 - p.A
	s.pix[i] = Pixel{
		R: p.R + d.R*k,
		G: p.G + d.G*k,
		B: p.B + d.B*k,
		A: p.A + d.A*k,
	}
}

// Paint hands fn the surface canvas. Whatever transform or alpha fn sets is
// restored when Paint returns, including when fn panics.
func (s *Surface) Paint(fn func(c *Canvas)) {
	s.canvas.save()
	defer s.canvas.restore()
	fn(&s.canvas)
}
