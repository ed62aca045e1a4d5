package control

import "github.com/san-kum/mtjsim/internal/dynamo"

// DefaultPulseAmplitude is the out-of-plane kick in A/m.
const DefaultPulseAmplitude = 10000.0

// Pulse applies (0, 0, Amplitude) during the first Steps steps and nothing
// afterwards.
type Pulse struct {
	Amplitude float64
	Steps     int
}

func NewPulse(amplitude float64) *Pulse {
	return &Pulse{
		Amplitude: amplitude,
		Steps:     1,
	}
}

func (p *Pulse) Compute(step int, t float64) dynamo.Vector3 {
	if step < p.Steps {
		return dynamo.Vector3{Z: p.Amplitude}
	}
	return dynamo.Vector3{}
}
