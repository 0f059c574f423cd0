package fog

import "math/rand"

// Source provides every random draw the simulation makes. Float64 returns a
// value in [0, 1).
type Source interface {
	Float64() float64
}

// NewSource returns a seeded pseudo-random source.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// uniform draws from [lo, hi).
func uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// uniformInt draws an integer from [lo, hi].
func uniformInt(src Source, lo, hi int) int {
	n := lo + int(src.Float64()*float64(hi-lo+1))
	if n > hi {
		n = hi
	}
	return n
}
