package readout

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mtjsim/internal/analysis"
	"github.com/san-kum/mtjsim/internal/dynamo"
)

// DefaultCutoff is the low-pass corner applied to the mixing voltage.
const DefaultCutoff = 10e6

// SpinDiodeVoltage rectifies the product of the drive current and the
// oscillating resistance. The mixing voltage -I*R is low-passed at cutoff
// and averaged over the run.
func SpinDiodeVoltage(current, resistance []float64, dt, cutoff float64) (float64, error) {
	if len(current) != len(resistance) {
		return 0, fmt.Errorf("%w: current %d, resistance %d",
			dynamo.ErrDimensionMismatch, len(current), len(resistance))
	}
	if len(current) == 0 {
		return 0, nil
	}
	if dt <= 0 {
		return 0, fmt.Errorf("%w: dt = %g", dynamo.ErrParameterBounds, dt)
	}

	mix := make([]float64, len(current))
	for i := range current {
		mix[i] = -current[i] * resistance[i]
	}
	filtered := analysis.LowPass(mix, cutoff, 1/dt)
	return stat.Mean(filtered, nil), nil
}
