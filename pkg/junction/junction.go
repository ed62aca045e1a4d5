// Package junction is the flat, positional interface to the LLG core of a
// magnetic tunnel junction. Every function takes plain per-layer slices,
// builds the parameter stack and delegates to the internal packages, so
// callers that think in arrays do not need to know about Stack or Layer.
//
// One step of a two-layer stack:
//
//	m0 = junction.RK45(m0, junction.NewCVector(1, 0, 0), m1, hext, 0, dt, hoe,
//		ms, ku, ju, kdir, th, alpha, demag)
//
// All functions are pure and safe for concurrent use.
package junction

import (
	"github.com/san-kum/mtjsim/internal/dynamo"
	"github.com/san-kum/mtjsim/internal/integrators"
	"github.com/san-kum/mtjsim/internal/physics"
	"github.com/san-kum/mtjsim/internal/readout"
)

// CVector is a three component vector.
type CVector = dynamo.Vector3

func NewCVector(x, y, z float64) CVector {
	return dynamo.NewVector3(x, y, z)
}

var rk4 = integrators.NewRK4()

// Stack assembles per-layer slices into a parameter stack. demag holds the
// three rows of a demagnetization tensor shared by every layer.
func Stack(ms, ku, ju []float64, kdir []CVector, th, alpha []float64, demag []CVector) *dynamo.Stack {
	var t dynamo.Tensor
	copy(t[:], demag)

	tensors := make([]dynamo.Tensor, len(ms))
	for i := range tensors {
		tensors[i] = t
	}
	return &dynamo.Stack{
		Ms:    ms,
		Ku:    ku,
		Ju:    ju,
		Kdir:  kdir,
		Th:    th,
		Alpha: alpha,
		Demag: tensors,
	}
}

// RK45 advances mag by one fixed RK4 step of size dt with the neighbouring
// layers held still, and returns the normalized result. The name is kept for
// existing callers; no adaptive stepping takes place.
func RK45(mag, mTop, mBottom, hext CVector, layer int, dt float64, hoe CVector,
	ms, ku, ju []float64, kdir []CVector, th, alpha []float64, demag []CVector) CVector {
	s := Stack(ms, ku, ju, kdir, th, alpha, demag)
	return Step(mag, mTop, mBottom, hext, hoe, layer, dt, s)
}

// Step is RK45 for callers that already hold a stack.
func Step(mag, mTop, mBottom, hext, hoe CVector, layer int, dt float64, s *dynamo.Stack) CVector {
	l := physics.NewLayer(mTop, mBottom, hext, hoe, layer, s)
	return rk4.Step(l, mag, 0, dt)
}

// LLG returns dm/dt of layer for the given neighbours and fields.
func LLG(mag, mTop, mBottom, hext, hoe CVector, layer int,
	ms, ku, ju []float64, kdir []CVector, th, alpha []float64, demag []CVector) CVector {
	s := Stack(ms, ku, ju, kdir, th, alpha, demag)
	return physics.LLG(mag, mTop, mBottom, hext, hoe, layer, s)
}

// TensorInteraction returns -scale * (T·m) for the tensor with rows t.
func TensorInteraction(m CVector, t []CVector, scale float64) CVector {
	var tensor dynamo.Tensor
	copy(tensor[:], t)
	return tensor.Interaction(m, scale)
}

func Dot(a, b CVector) float64 {
	return a.Dot(b)
}

// CosBetweenArrays returns cos² of the angle between a and b.
func CosBetweenArrays(a, b CVector) float64 {
	return readout.CosineSquaredAngle(a, b)
}

// SpinDiode2Layers is the series spin-diode resistance of two layers, with
// rLow counted once per layer.
func SpinDiode2Layers(current, m1, m2 CVector, rLow, deltaR float64) float64 {
	return readout.SpinDiodeSignal(current, m1, m2, rLow, deltaR)
}
