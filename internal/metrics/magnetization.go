package metrics

import (
	"math"

	"github.com/san-kum/mtjsim/internal/dynamo"
)

// MeanMz is the time average of the moment-weighted mz of the stack.
type MeanMz struct {
	name    string
	weights []float64
	total   float64
	sum     float64
	samples int
}

// NewMeanMz weights layer i by th[i]*ms[i].
func NewMeanMz(ms, th []float64) *MeanMz {
	w := make([]float64, len(ms))
	var total float64
	for i := range ms {
		w[i] = ms[i] * th[i]
		total += w[i]
	}
	return &MeanMz{
		name:    "mean_mz",
		weights: w,
		total:   total,
	}
}

func (a *MeanMz) Name() string { return a.name }

func (a *MeanMz) Observe(m []dynamo.Vector3, hoe dynamo.Vector3, t float64) {
	if a.total == 0 || len(m) != len(a.weights) {
		return
	}
	var mz float64
	for i, v := range m {
		mz += v.Z * a.weights[i]
	}
	a.sum += mz / a.total
	a.samples++
}

func (a *MeanMz) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *MeanMz) Reset() {
	a.sum = 0
	a.samples = 0
}

// NormDrift tracks the largest deviation of any layer from unit length.
type NormDrift struct {
	name     string
	maxDrift float64
}

func NewNormDrift() *NormDrift {
	return &NormDrift{
		name: "norm_drift",
	}
}

func (n *NormDrift) Name() string { return n.name }

func (n *NormDrift) Observe(m []dynamo.Vector3, hoe dynamo.Vector3, t float64) {
	for _, v := range m {
		n.maxDrift = math.Max(n.maxDrift, math.Abs(v.Norm()-1))
	}
}

func (n *NormDrift) Value() float64 {
	return n.maxDrift
}

func (n *NormDrift) Reset() {
	n.maxDrift = 0
}
