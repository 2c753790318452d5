package mining

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the sentinel for caller errors: unknown names,
// mismatched parallel lists and out-of-range thresholds.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError describes which argument of which operation was rejected.
type ArgumentError struct {
	Op    string
	Arg   string
	Value any
}

func (e *ArgumentError) Error() string {
	if e == nil {
		return ErrInvalidArgument.Error()
	}
	return fmt.Sprintf("%s: invalid %s %v", e.Op, e.Arg, e.Value)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// InvalidArgument builds an ArgumentError. It is exported so sibling packages
// report argument problems with the same shape.
func InvalidArgument(op, arg string, value any) error {
	return &ArgumentError{Op: op, Arg: arg, Value: value}
}
