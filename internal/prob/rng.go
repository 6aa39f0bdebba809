package prob

import "math/rand/v2"

// NewRNG returns a PCG generator for the given seed and stream. Workers of
// one batch share the seed and differ by stream.
func NewRNG(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// NewUnseededRNG returns a generator seeded from the runtime's entropy.
func NewUnseededRNG() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Uniform draws from [from, to).
func Uniform(rng *rand.Rand, from, to float64) float64 {
	return from + rng.Float64()*(to-from)
}

// UniformInt draws an integer from [min, max] inclusive. If max < min the
// result is min.
func UniformInt(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.IntN(max-min+1)
}
