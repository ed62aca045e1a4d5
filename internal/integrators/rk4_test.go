package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/mtjsim/internal/dynamo"
)

// precession is dm/dt = -omega (m x z), a rigid rotation about z with
// angular velocity omega.
type precession struct {
	omega float64
}

func (p *precession) Derive(m dynamo.Vector3, t float64) dynamo.Vector3 {
	return m.Cross(dynamo.Vector3{Z: 1}).Scale(-p.omega)
}

type still struct{}

func (s *still) Derive(m dynamo.Vector3, t float64) dynamo.Vector3 {
	return dynamo.Vector3{}
}

func exactPrecession(theta0, omega, t float64) dynamo.Vector3 {
	st, ct := math.Sincos(theta0)
	return dynamo.Vector3{X: st * math.Cos(omega*t), Y: st * math.Sin(omega*t), Z: ct}
}

func TestRK4Accuracy(t *testing.T) {
	dyn := &precession{omega: 1.0}
	integ := NewRK4()

	theta0 := 0.7
	m := exactPrecession(theta0, 1.0, 0)
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		m = integ.Step(dyn, m, float64(i)*dt, dt)
	}

	want := exactPrecession(theta0, 1.0, float64(steps)*dt)
	if !m.Equal(want, 1e-8) {
		t.Errorf("precession error too large: got %v, want %v", m, want)
	}
	if math.Abs(m.Z-math.Cos(theta0)) > 1e-10 {
		t.Errorf("polar angle drifted: mz = %.12f, want %.12f", m.Z, math.Cos(theta0))
	}
}

func TestRK4UnitNorm(t *testing.T) {
	dyn := &precession{omega: 3.0}
	integ := NewRK4()

	tests := []dynamo.Vector3{
		{X: 3, Y: 4, Z: 12},
		{X: 0.001, Y: 0, Z: 0},
		{X: -1, Y: 1, Z: -1},
		{X: 0, Y: 0, Z: 1},
	}

	for _, m := range tests {
		got := integ.Step(dyn, m, 0, 1e-3)
		if math.Abs(got.Norm()-1) > 1e-12 {
			t.Errorf("Step(%v) norm = %.15f, want 1", m, got.Norm())
		}
	}
}

func TestRK4RoundTrip(t *testing.T) {
	dyn := &precession{omega: 1.0}
	integ := NewRK4()

	m0 := exactPrecession(1.1, 1.0, 0)
	dt := 0.01

	fwd := integ.Step(dyn, m0, 0, dt)
	back := integ.Step(dyn, fwd, dt, -dt)

	if !back.Equal(m0, 1e-10) {
		t.Errorf("round trip: got %v, want %v", back, m0)
	}
}

func TestRK4ZeroDerivative(t *testing.T) {
	integ := NewRK4()
	m := dynamo.Vector3{X: 0.6, Z: 0.8}

	got := integ.Step(&still{}, m, 0, 0.1)
	if !got.Equal(m, 1e-15) {
		t.Errorf("got %v, want %v", got, m)
	}
}

func TestIntegratorOrder(t *testing.T) {
	dyn := &precession{omega: 1.0}
	dt := 0.01
	steps := 100
	want := exactPrecession(math.Pi/2, 1.0, float64(steps)*dt)

	errOf := func(integ dynamo.Integrator) float64 {
		m := exactPrecession(math.Pi/2, 1.0, 0)
		for i := 0; i < steps; i++ {
			m = integ.Step(dyn, m, float64(i)*dt, dt)
		}
		return m.Sub(want).Norm()
	}

	eEuler := errOf(NewEuler())
	eHeun := errOf(NewHeun())
	eRK4 := errOf(NewRK4())

	if !(eEuler > eHeun && eHeun > eRK4) {
		t.Errorf("expected euler > heun > rk4 error, got %e, %e, %e", eEuler, eHeun, eRK4)
	}
}
