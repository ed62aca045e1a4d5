package integrators

import "github.com/san-kum/mtjsim/internal/dynamo"

// RK4 is the classical four-stage Runge-Kutta scheme followed by
// renormalization to unit length. Renormalization is the only control on
// drift; there is no error estimate.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, m dynamo.Vector3, t, dt float64) dynamo.Vector3 {
	halfDt := dt * 0.5

	k1 := dyn.Derive(m, t).Scale(dt)
	k2 := dyn.Derive(m.Add(k1.Scale(0.5)), t+halfDt).Scale(dt)
	k3 := dyn.Derive(m.Add(k2.Scale(0.5)), t+halfDt).Scale(dt)
	k4 := dyn.Derive(m.Add(k3), t+dt).Scale(dt)

	dm := k1.Add(k2.Scale(2.0)).Add(k3.Scale(2.0)).Add(k4).Div(6.0)
	next := m.Add(dm)
	next.Normalize()
	return next
}
