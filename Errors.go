package Go_BSet

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when removing a value that isn't a member.
	ErrNotFound = errors.New("value not found")
	// ErrInvalidConfig is returned by constructors for parameters that can't keep a table correct.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnhashable is returned for opaque values whose dynamic type isn't comparable.
	ErrUnhashable = errors.New("value is not comparable")
)
