package physics

import "github.com/san-kum/mtjsim/internal/dynamo"

// LLG returns dm/dt for layer under the Landau-Lifshitz-Gilbert equation
//
//	dm/dt = -γ'(m × Heff) - γ'α(m × (m × Heff))
//
// The result is not normalized.
func LLG(mag, mTop, mBottom, hext, hoe dynamo.Vector3, layer int, s *dynamo.Stack) dynamo.Vector3 {
	heff := EffectiveField(mag, mTop, mBottom, hext, hoe, layer, s)
	return torque(mag, heff, s.Alpha[layer])
}

func torque(mag, heff dynamo.Vector3, alpha float64) dynamo.Vector3 {
	g := -dynamo.Physical.PerGyr
	hprod := mag.Cross(heff)
	return hprod.Scale(g).Add(mag.Cross(hprod).Scale(alpha * g))
}
