package ui

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// slide eases newly loaded page content into place with a spring.
type slide struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	active bool
}

func newSlide(fps int) slide {
	return slide{spring: harmonica.NewSpring(harmonica.FPS(fps), 7.0, 0.9)}
}

func (s *slide) start(from float64) {
	s.pos = from
	s.vel = 0
	s.active = from != 0
}

// step advances the spring one frame and returns the column offset.
func (s *slide) step() int {
	if !s.active {
		return 0
	}
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, 0)
	if math.Abs(s.pos) < 0.5 && math.Abs(s.vel) < 0.5 {
		s.pos, s.vel, s.active = 0, 0, false
	}
	return s.offset()
}

func (s *slide) offset() int {
	return int(math.Round(s.pos))
}
