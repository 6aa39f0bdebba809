package prob

import (
	"fmt"
	"math"
)

// Density is a piecewise-linear density given by its values P at the
// strictly increasing positions E.
type Density struct {
	E []float64 `json:"e" yaml:"e"`
	P []float64 `json:"p" yaml:"p"`
}

func (d Density) Len() int { return len(d.E) }

func (d Density) Clone() Density {
	c := Density{
		E: make([]float64, len(d.E)),
		P: make([]float64, len(d.P)),
	}
	copy(c.E, d.E)
	copy(c.P, d.P)
	return c
}

// Validate reports ErrMalformedDensity for anything the sampler cannot walk.
func (d Density) Validate() error {
	if len(d.E) != len(d.P) {
		return fmt.Errorf("%w: len(E)=%d, len(P)=%d", ErrMalformedDensity, len(d.E), len(d.P))
	}
	if len(d.E) < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrMalformedDensity, len(d.E))
	}
	for i, p := range d.P {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return fmt.Errorf("%w: P[%d]=%v", ErrMalformedDensity, i, p)
		}
	}
	for i := 1; i < len(d.E); i++ {
		if !(d.E[i] > d.E[i-1]) {
			return fmt.Errorf("%w: E not strictly increasing at index %d", ErrMalformedDensity, i)
		}
	}
	return nil
}

// Mass is the trapezoidal integral of P over E.
func Mass(d Density) float64 {
	mass := 0.0
	for i := 0; i+1 < len(d.E); i++ {
		mass += trapezoid(d, i)
	}
	return mass
}

// Normalize returns a new density whose trapezoidal integral is 1.
// The input is left untouched.
func Normalize(d Density) (Density, error) {
	if err := d.Validate(); err != nil {
		return Density{}, err
	}

	mass := Mass(d)
	if mass == 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return Density{}, fmt.Errorf("%w: integral=%v", ErrZeroMass, mass)
	}

	n := d.Clone()
	for i := range n.P {
		n.P[i] /= mass
	}
	return n, nil
}

func trapezoid(d Density, i int) float64 {
	return (d.P[i] + d.P[i+1]) * (d.E[i+1] - d.E[i]) / 2
}
