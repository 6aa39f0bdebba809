package roll

import "errors"

var (
	// ErrOffsetRange indicates OffsetMin > OffsetMax.
	ErrOffsetRange = errors.New("roll: offset range is empty")
)
