package address

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is matched by every addressing failure.
var ErrOutOfRange = errors.New("address out of range")

// Error reports a tag or grid area that does not name anything on screen.
type Error struct {
	Kind  string // "tag" or "area"
	Value int
	Max   int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %d out of range [1, %d]", e.Kind, e.Value, e.Max)
}

func (e *Error) Unwrap() error { return ErrOutOfRange }
