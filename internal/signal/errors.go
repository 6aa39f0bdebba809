package signal

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSignal indicates an empty signal or mismatched X/Y lengths.
	ErrMalformedSignal = errors.New("signal: malformed signal")

	// ErrGridMisalignment indicates a composition offset that does not land
	// on the grid of the second signal.
	ErrGridMisalignment = errors.New("signal: offset is not on the signal grid")
)

// GridError wraps ErrGridMisalignment with the offending offset.
type GridError struct {
	Offset    float64
	Tolerance float64
}

func (e *GridError) Error() string {
	return fmt.Sprintf("%s (offset=%g, tolerance=%g)", ErrGridMisalignment.Error(), e.Offset, e.Tolerance)
}

func (e *GridError) Unwrap() error {
	return ErrGridMisalignment
}
