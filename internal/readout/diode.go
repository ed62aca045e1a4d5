package readout

import "github.com/san-kum/mtjsim/internal/dynamo"

// CosineSquaredAngle returns cos² of the angle between a and b. Either vector
// being zero yields NaN.
func CosineSquaredAngle(a, b dynamo.Vector3) float64 {
	c := a.Dot(b) / (a.Norm() * b.Norm())
	return c * c
}

// CosineAngle is the signed cosine of the angle between a and b.
func CosineAngle(a, b dynamo.Vector3) float64 {
	return a.Dot(b) / (a.Norm() * b.Norm())
}

// SpinDiodeSignal is the series resistance of two junctions sharing the
// current direction current. Each junction contributes rLow plus deltaR
// scaled by cos² between the current and its magnetization, so rLow appears
// twice.
func SpinDiodeSignal(current, m1, m2 dynamo.Vector3, rLow, deltaR float64) float64 {
	return rLow + deltaR*CosineSquaredAngle(current, m1) +
		rLow + deltaR*CosineSquaredAngle(current, m2)
}
