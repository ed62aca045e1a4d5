package sim

import "github.com/san-kum/mtjsim/internal/dynamo"

// State holds one magnetization per layer, top layer first.
type State []dynamo.Vector3

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every layer is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if !v.IsValid() {
			return false
		}
	}
	return true
}

// Invalid returns the index of the first non-finite layer, or -1.
func (s State) Invalid() int {
	for i, v := range s {
		if !v.IsValid() {
			return i
		}
	}
	return -1
}

// Mz returns the sum of the z components over all layers.
func (s State) Mz() float64 {
	var sum float64
	for _, v := range s {
		sum += v.Z
	}
	return sum
}

type Config struct {
	Dt            float64
	Steps         int
	Hext          dynamo.Vector3
	ValidateState bool
}

// Result is the recorded trajectory of a run. Index i of every series is
// the state after step i, taken at the time the step started.
type Result struct {
	Times      []float64
	States     []State
	Resistance []float64
	PIMM       []float64
	Current    []float64
	Metrics    map[string]float64
	StepsTaken int
	Final      State
}

// currentSource is implemented by drivers that push a current through the
// junction.
type currentSource interface {
	Current(t float64) float64
}
