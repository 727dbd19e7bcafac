package synth

import "math"

// Hasher maps any real number to a repeatable value in [0, 1). The grid
// synthesizer derives every field from it, so swapping the implementation
// changes the terrain but not the field formulas.
type Hasher interface {
	Hash(x float64) float64
}

// SinHasher is the default hash: the fractional part of sin(x)*10000. Cheap,
// stateless, and stable across platforms for the input ranges the grid uses.
type SinHasher struct{}

func (SinHasher) Hash(x float64) float64 {
	v := math.Sin(x) * 10000
	return v - math.Floor(v)
}
