package prob

import "math/rand/v2"

// Sampler draws values from a density by inverting its cumulative
// trapezoidal sum. The density is assumed to be normalized already.
type Sampler struct {
	e   []float64
	cum []float64
}

// NewSampler validates d and precomputes its cumulative table.
func NewSampler(d Density) (*Sampler, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	s := &Sampler{
		e:   make([]float64, len(d.E)),
		cum: make([]float64, len(d.E)),
	}
	copy(s.e, d.E)
	for i := 0; i+1 < len(d.E); i++ {
		s.cum[i+1] = s.cum[i] + trapezoid(d, i)
	}
	return s, nil
}

// Total is the cumulative mass at the last sample; 1 for a normalized density.
func (s *Sampler) Total() float64 { return s.cum[len(s.cum)-1] }

// Sample draws one value using rng.
func (s *Sampler) Sample(rng *rand.Rand) float64 {
	return s.SampleAt(rng.Float64())
}

// SampleAt maps a cumulative probability roll onto the energy axis.
// The result always lies within the energy grid, even when roll exceeds Total.
func (s *Sampler) SampleAt(roll float64) float64 {
	n := len(s.cum)

	idx := 0
	for idx+1 < n {
		if s.cum[idx+1] >= roll {
			break
		}
		idx++
	}
	// roll above the total mass leaves idx on the last sample
	if idx > n-2 {
		idx = n - 2
	}

	lo, hi := s.cum[idx], s.cum[idx+1]
	if hi <= lo {
		return s.e[idx]
	}

	t := (roll - lo) / (hi - lo)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return s.e[idx] + t*(s.e[idx+1]-s.e[idx])
}

// SampleScalar draws a single value from d without keeping a Sampler.
func SampleScalar(d Density, rng *rand.Rand) (float64, error) {
	s, err := NewSampler(d)
	if err != nil {
		return 0, err
	}
	return s.Sample(rng), nil
}
