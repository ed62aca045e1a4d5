package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations. The numerical core never returns
// them; they are raised by the driver that validates inputs once per run.
var (
	// ErrInvalidState indicates a magnetization with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a layer parameter outside its valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrDimensionMismatch indicates per-layer arrays of inconsistent length.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and stack")

	// ErrZeroMagnetization indicates a magnetization that cannot be normalized.
	ErrZeroMagnetization = errors.New("dynamo: zero magnetization")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Layer   int
	State   Vector3
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4g, layer %d): %v", e.Step, e.Time, e.Layer, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
