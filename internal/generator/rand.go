package generator

import "math/rand/v2"

// Rand is the randomness the generator and the scheduler draw from.
// Tests substitute a fixed sequence.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). n must be > 0.
	IntN(n int) int
}

// globalRand uses the process-wide math/rand/v2 source, which is safe for
// concurrent use.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// DefaultRand returns the process-wide random source.
func DefaultRand() Rand {
	return globalRand{}
}
