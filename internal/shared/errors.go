package shared

import "errors"

var (
	// ErrConflict indicates the resource already exists.
	ErrConflict = errors.New("conflict")
	// ErrLockHeld indicates another run holds the critical section.
	ErrLockHeld = errors.New("lock already held")
)
