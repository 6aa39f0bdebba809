package prob

import "errors"

var (
	// ErrMalformedDensity indicates mismatched lengths, too few samples,
	// a non-increasing energy axis or invalid density values.
	ErrMalformedDensity = errors.New("prob: malformed density")

	// ErrZeroMass indicates a density whose integral is zero or not finite.
	ErrZeroMass = errors.New("prob: density has zero mass")
)
