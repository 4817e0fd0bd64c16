package sim

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrNonFiniteState indicates the integrator produced NaN or Inf.
	ErrNonFiniteState = errors.New("sim: non-finite state (NaN or Inf detected)")

	// ErrBadGrid indicates output times that are not strictly increasing
	// or start before the initial condition.
	ErrBadGrid = errors.New("sim: output times must be strictly increasing")

	// ErrConfig indicates an invalid run configuration.
	ErrConfig = errors.New("sim: invalid run configuration")

	// ErrStepTooSmall indicates the adaptive step fell below MinStep.
	ErrStepTooSmall = errors.New("sim: adaptive step below minimum")

	// ErrDimensionMismatch indicates the initial state does not match the
	// dynamics' state dimension.
	ErrDimensionMismatch = errors.New("sim: state dimension mismatch")
)

// IntegrationError reports where a run failed. It wraps one of the
// sentinel errors above so callers can branch with errors.Is.
type IntegrationError struct {
	Time  float64
	Step  int
	State State
	Err   error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration failed at t=%.4f (step %d): %v", e.Time, e.Step, e.Err)
}

func (e *IntegrationError) Unwrap() error { return e.Err }
