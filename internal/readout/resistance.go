package readout

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/mtjsim/internal/dynamo"
)

// ResistanceParams are the magnetoresistive constants of one layer.
type ResistanceParams struct {
	Rx0 float64 // longitudinal base resistance
	Ry0 float64 // transverse base resistance
	AMR float64 // anisotropic magnetoresistance ratio
	SMR float64 // spin Hall magnetoresistance ratio
	AHE float64 // anomalous Hall coefficient
	W   float64 // strip width
	L   float64 // strip length
}

// Resistance returns the longitudinal (Rx), transverse (Ry) and
// perpendicular (Rz) resistance of a stack in magnetic state m. Layers
// conduct in parallel for Rx and Ry. Rz interpolates between Rx0[0] (parallel)
// and Ry0[0] (antiparallel) by the angle between the first two layers and is
// zero for a single layer. The width to length ratio of the first layer
// scales the planar Hall term of every layer.
func Resistance(layers []ResistanceParams, m []dynamo.Vector3) (rx, ry, rz float64, err error) {
	if len(layers) == 0 || len(layers) != len(m) {
		return 0, 0, 0, fmt.Errorf("%w: %d resistance layers, %d magnetizations",
			dynamo.ErrDimensionMismatch, len(layers), len(m))
	}

	wl := layers[0].W / layers[0].L
	sx := make([]float64, len(layers))
	sy := make([]float64, len(layers))
	for i, p := range layers {
		mi := m[i]
		sx[i] = 1 / (p.Rx0 + p.Rx0*p.AMR*mi.X*mi.X + p.Rx0*p.SMR*mi.Y*mi.Y)
		sy[i] = 1 / (p.Ry0 + p.AHE*mi.Z + p.Rx0*wl*(p.AMR+p.SMR)*mi.X*mi.Y)
	}
	rx = 1 / floats.Sum(sx)
	ry = 1 / floats.Sum(sy)

	if len(layers) > 1 {
		rp, rap := layers[0].Rx0, layers[0].Ry0
		rz = rp + (rap-rp)/2*(1-CosineAngle(m[0], m[1]))
	}
	return rx, ry, rz, nil
}

// AverageMagnetization weights each layer by its moment th*Ms.
func AverageMagnetization(ms, th []float64, m []dynamo.Vector3) (dynamo.Vector3, error) {
	if len(ms) != len(m) || len(th) != len(m) {
		return dynamo.Vector3{}, fmt.Errorf("%w: Ms %d, th %d, m %d",
			dynamo.ErrDimensionMismatch, len(ms), len(th), len(m))
	}

	var sum dynamo.Vector3
	var weight float64
	for i := range m {
		w := th[i] * ms[i]
		sum = sum.Add(m[i].Scale(w))
		weight += w
	}
	if weight == 0 {
		return dynamo.Vector3{}, fmt.Errorf("%w: total moment is zero", dynamo.ErrZeroMagnetization)
	}
	return sum.Div(weight), nil
}
