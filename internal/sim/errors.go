package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a body whose position, velocity or
	// acceleration is no longer finite.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a run configuration that cannot be stepped.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("sim: simulation canceled by context")
)

// SimError wraps an error with the step and time it occurred at.
type SimError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
