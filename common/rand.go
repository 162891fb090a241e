package common

import "math/rand"

// Rand is the random source every probabilistic roll in the simulation draws from.
type Rand interface {
	Float64() float64
	Int63() int64
}

// NewRand returns a deterministic source for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Chance rolls r against p in [0, 1].
func Chance(r Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// Between returns a uniform value in [lo, hi].
func Between(r Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}
