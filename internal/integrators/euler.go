package integrators

import "github.com/san-kum/mtjsim/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, m dynamo.Vector3, t float64, dt float64) dynamo.Vector3 {
	next := m.Add(dyn.Derive(m, t).Scale(dt))
	next.Normalize()
	return next
}

// Heun is the explicit trapezoidal (improved Euler) scheme.
type Heun struct{}

func NewHeun() *Heun {
	return &Heun{}
}

func (h *Heun) Step(dyn dynamo.System, m dynamo.Vector3, t float64, dt float64) dynamo.Vector3 {
	d1 := dyn.Derive(m, t)
	pred := m.Add(d1.Scale(dt))
	d2 := dyn.Derive(pred, t+dt)

	next := m.Add(d1.Add(d2).Scale(0.5 * dt))
	next.Normalize()
	return next
}
