package control

import (
	"fmt"
	"math"

	"github.com/san-kum/mtjsim/internal/dynamo"
)

// DefaultCurrentAmplitude is the nominal spin-diode drive amplitude.
const DefaultCurrentAmplitude = 20000.0

// Sine drives the junction with the current I(t) = Amplitude/8 sin(2πft),
// whose Oersted field points along y with strength 5 I(t).
type Sine struct {
	Amplitude float64
	Frequency float64
	Phase     float64
}

func NewSine(amplitude, frequency float64) *Sine {
	return &Sine{
		Amplitude: amplitude,
		Frequency: frequency,
	}
}

// Current returns the drive current at time t.
func (s *Sine) Current(t float64) float64 {
	return s.Amplitude / 8 * math.Sin(2*math.Pi*s.Frequency*t+s.Phase)
}

func (s *Sine) Compute(step int, t float64) dynamo.Vector3 {
	return dynamo.Vector3{Y: 5 * s.Current(t)}
}

func (s *Sine) GetParams() map[string]float64 {
	return map[string]float64{
		"amplitude": s.Amplitude,
		"frequency": s.Frequency,
		"phase":     s.Phase,
	}
}

func (s *Sine) SetParam(name string, value float64) error {
	switch name {
	case "amplitude":
		s.Amplitude = value
	case "frequency":
		s.Frequency = value
	case "phase":
		s.Phase = value
	default:
		return fmt.Errorf("%w: unknown drive parameter %q", dynamo.ErrParameterBounds, name)
	}
	return nil
}
