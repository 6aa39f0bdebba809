package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCount indicates a negative batch size.
	ErrInvalidCount = errors.New("sim: batch size must be non-negative")

	// ErrNoTrial indicates a nil trial function.
	ErrNoTrial = errors.New("sim: nil trial function")
)

// TrialError wraps the error of the trial that aborted a batch.
type TrialError struct {
	Index   int
	Wrapped error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("trial %d: %v", e.Index, e.Wrapped)
}

func (e *TrialError) Unwrap() error {
	return e.Wrapped
}
