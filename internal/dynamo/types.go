package dynamo

import (
	"fmt"
	"math"
)

// Stack holds the per-layer parameter arrays of a junction. Every slice is
// indexed by layer number.
type Stack struct {
	Ms    []float64 // saturation magnetization
	Ku    []float64 // uniaxial anisotropy constant
	Ju    []float64 // interlayer exchange coupling; only Ju[0] enters the field
	Kdir  []Vector3 // anisotropy axis
	Th    []float64 // layer thickness
	Alpha []float64 // Gilbert damping
	Demag []Tensor  // demagnetization tensor
}

// Layers returns the number of layers described by Ms.
func (s *Stack) Layers() int {
	return len(s.Ms)
}

// Validate checks that every array describes n layers and that the
// quantities the field model divides by are nonzero. It is meant to run once
// per simulation, never inside the step loop.
func (s *Stack) Validate(n int) error {
	lens := []struct {
		name string
		n    int
	}{
		{"Ms", len(s.Ms)},
		{"Ku", len(s.Ku)},
		{"Kdir", len(s.Kdir)},
		{"Th", len(s.Th)},
		{"Alpha", len(s.Alpha)},
		{"Demag", len(s.Demag)},
	}
	for _, l := range lens {
		if l.n != n {
			return fmt.Errorf("%w: %s has %d entries, want %d", ErrDimensionMismatch, l.name, l.n, n)
		}
	}
	if n > 0 && len(s.Ju) == 0 {
		return fmt.Errorf("%w: Ju is empty", ErrDimensionMismatch)
	}
	for i := 0; i < n; i++ {
		if s.Ms[i] == 0 || math.IsNaN(s.Ms[i]) {
			return fmt.Errorf("%w: Ms[%d] = %g", ErrParameterBounds, i, s.Ms[i])
		}
		if s.Th[i] <= 0 {
			return fmt.Errorf("%w: Th[%d] = %g", ErrParameterBounds, i, s.Th[i])
		}
		if s.Alpha[i] < 0 {
			return fmt.Errorf("%w: Alpha[%d] = %g", ErrParameterBounds, i, s.Alpha[i])
		}
	}
	return nil
}

// System is a magnetization ODE dm/dt = f(m, t).
type System interface {
	Derive(m Vector3, t float64) Vector3
}

// Integrator advances a unit magnetization by one fixed step.
type Integrator interface {
	Step(sys System, m Vector3, t, dt float64) Vector3
}

// Driver supplies the Oersted field applied at a given step.
type Driver interface {
	Compute(step int, t float64) Vector3
}

type Metric interface {
	Name() string
	Observe(m []Vector3, hoe Vector3, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, m []Vector3, hoe Vector3, t float64)
}
