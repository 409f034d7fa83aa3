package reactor

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition marks input that must be rejected before any check or
	// integration runs: non-positive values or too many samples.
	ErrPrecondition = errors.New("reactor: precondition violated")

	// ErrConstraint marks flows that do not conserve mass at some node.
	ErrConstraint = errors.New("reactor: flow constraint violated")
)

// PreconditionError names the offending field.
type PreconditionError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s = %g (%s)", ErrPrecondition, e.Field, e.Value, e.Reason)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}
