// Package signal models sampled pulse waveforms and the two operations the
// simulator needs on them: grid-aligned superposition and windowed sums.
package signal

import (
	"fmt"
	"math"
)

// Signal is a waveform sampled on the grid X.
type Signal struct {
	X []float64 `json:"x" yaml:"x"`
	Y []float64 `json:"y" yaml:"y"`
}

func (s Signal) Len() int { return len(s.X) }

func (s Signal) Validate() error {
	if len(s.X) != len(s.Y) {
		return fmt.Errorf("%w: len(X)=%d, len(Y)=%d", ErrMalformedSignal, len(s.X), len(s.Y))
	}
	if len(s.X) == 0 {
		return fmt.Errorf("%w: empty signal", ErrMalformedSignal)
	}
	for i := range s.X {
		if !finite(s.X[i]) || !finite(s.Y[i]) {
			return fmt.Errorf("%w: non-finite sample %d (%v, %v)", ErrMalformedSignal, i, s.X[i], s.Y[i])
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (s Signal) Clone() Signal {
	c := Signal{
		X: make([]float64, len(s.X)),
		Y: make([]float64, len(s.Y)),
	}
	copy(c.X, s.X)
	copy(c.Y, s.Y)
	return c
}

// Scale returns a copy with every value multiplied by amp. X is shared with
// the receiver since it is never written.
func (s Signal) Scale(amp float64) Signal {
	y := make([]float64, len(s.Y))
	for i, v := range s.Y {
		y[i] = v * amp
	}
	return Signal{X: s.X, Y: y}
}

// Sum is the total of all values.
func (s Signal) Sum() float64 {
	sum := 0.0
	for _, v := range s.Y {
		sum += v
	}
	return sum
}

// OffsetIndex finds the index i of second's grid with
// second.X[i] - first.X[0] == offset, within tol.
func OffsetIndex(first, second Signal, offset, tol float64) (int, error) {
	if len(first.X) == 0 {
		return 0, fmt.Errorf("%w: empty signal", ErrMalformedSignal)
	}
	x0 := first.X[0]
	for i, x := range second.X {
		d := x - x0
		if d == offset || (tol > 0 && math.Abs(d-offset) <= tol) {
			return i, nil
		}
	}
	return 0, &GridError{Offset: offset, Tolerance: tol}
}

// Compose superposes second, shifted by offset and scaled by amp2, onto a
// copy of first scaled by amp1. The offset must match the grid exactly.
func Compose(first, second Signal, offset, amp1, amp2 float64) (Signal, error) {
	return ComposeTolerance(first, second, offset, amp1, amp2, 0)
}

// ComposeTolerance is Compose with an explicit grid matching tolerance;
// tol == 0 requires exact equality.
func ComposeTolerance(first, second Signal, offset, amp1, amp2, tol float64) (Signal, error) {
	out := Signal{
		X: make([]float64, len(first.X)),
		Y: make([]float64, len(first.Y)),
	}
	copy(out.X, first.X)
	return compose(out, first, second, offset, amp1, amp2, tol)
}

// ComposeInto writes the composition into dst, which must have the length of
// first. The returned signal shares X with first and uses dst as Y.
func ComposeInto(dst []float64, first, second Signal, offset, amp1, amp2, tol float64) (Signal, error) {
	if len(dst) != len(first.Y) {
		return Signal{}, fmt.Errorf("%w: destination length %d, want %d", ErrMalformedSignal, len(dst), len(first.Y))
	}
	return compose(Signal{X: first.X, Y: dst}, first, second, offset, amp1, amp2, tol)
}

func compose(out, first, second Signal, offset, amp1, amp2, tol float64) (Signal, error) {
	if err := first.Validate(); err != nil {
		return Signal{}, err
	}
	if err := second.Validate(); err != nil {
		return Signal{}, err
	}

	iOffset, err := OffsetIndex(first, second, offset, tol)
	if err != nil {
		return Signal{}, err
	}

	for i, v := range first.Y {
		out.Y[i] = v * amp1
	}
	// the shifted tail of second falls off the end of the grid
	for i := 0; i+iOffset < len(out.Y) && i < len(second.Y); i++ {
		out.Y[i+iOffset] += second.Y[i] * amp2
	}
	return out, nil
}
