package surface

// Pair is the background and foreground surfaces of one fog instance.
// Background sits behind the host content, Foreground in front of it.
type Pair struct {
	Background *Surface
	Foreground *Surface
}

// NewPair allocates both surfaces at w×h with their stacking orders.
func NewPair(w, h, backZ, foreZ int, blend BlendMode) *Pair {
	return &Pair{
		Background: New("fog-background", w, h, backZ, blend),
		Foreground: New("fog-foreground", w, h, foreZ, blend),
	}
}

func (p *Pair) Resize(w, h int) {
	p.Background.Resize(w, h)
	p.Foreground.Resize(w, h)
}

func (p *Pair) Clear() {
	p.Background.Clear()
	p.Foreground.Clear()
}

// Layers returns both surfaces, background first.
func (p *Pair) Layers() []Layer {
	return []Layer{p.Background, p.Foreground}
}
