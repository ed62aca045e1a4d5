// Package stimulus generates the external field sequences of a sweep.
package stimulus

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/mtjsim/internal/dynamo"
)

// ErrUnknownMode is returned for a sweep mode other than H, phi or theta.
var ErrUnknownMode = errors.New("stimulus: unknown sweep mode")

type Mode string

const (
	ModeH     Mode = "H"
	ModePhi   Mode = "phi"
	ModeTheta Mode = "theta"
)

// Config describes a field sweep. Angles are in degrees, theta measured
// from z and phi from x in the plane.
type Config struct {
	Mode     Mode    `yaml:"mode" json:"mode"`
	H        float64 `yaml:"h" json:"h"`
	HMin     float64 `yaml:"hmin" json:"hmin"`
	HMax     float64 `yaml:"hmax" json:"hmax"`
	Theta    float64 `yaml:"theta" json:"theta"`
	ThetaMin float64 `yaml:"theta_min" json:"theta_min"`
	ThetaMax float64 `yaml:"theta_max" json:"theta_max"`
	Phi      float64 `yaml:"phi" json:"phi"`
	PhiMin   float64 `yaml:"phi_min" json:"phi_min"`
	PhiMax   float64 `yaml:"phi_max" json:"phi_max"`
	Steps    int     `yaml:"steps" json:"steps"`
	Back     bool    `yaml:"back" json:"back"`
}

// Sweep returns the field at every point of the sweep together with the
// swept quantity: |H| in H mode, the angle in degrees otherwise. With Back
// set the negated sweep is appended.
func Sweep(cfg Config) ([]dynamo.Vector3, []float64, error) {
	if cfg.Steps <= 0 {
		return nil, nil, fmt.Errorf("%w: sweep steps = %d", dynamo.ErrParameterBounds, cfg.Steps)
	}

	var (
		fields []dynamo.Vector3
		swept  = make([]float64, cfg.Steps)
	)

	switch cfg.Mode {
	case ModeH:
		span(swept, cfg.HMin, cfg.HMax)
		dir := direction(cfg.Theta, cfg.Phi)
		fields = make([]dynamo.Vector3, cfg.Steps)
		for i, h := range swept {
			fields[i] = dynamo.Vector3{
				X: round2(h * dir.X),
				Y: round2(h * dir.Y),
				Z: round2(h * dir.Z),
			}
		}
	case ModePhi:
		span(swept, cfg.PhiMin, cfg.PhiMax)
		fields = make([]dynamo.Vector3, cfg.Steps)
		for i, phi := range swept {
			fields[i] = direction(cfg.Theta, phi).Scale(cfg.H)
		}
	case ModeTheta:
		span(swept, cfg.ThetaMin, cfg.ThetaMax)
		fields = make([]dynamo.Vector3, cfg.Steps)
		for i, theta := range swept {
			fields[i] = direction(theta, cfg.Phi).Scale(cfg.H)
		}
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}

	if cfg.Back {
		n := len(fields)
		for i := 0; i < n; i++ {
			fields = append(fields, fields[i].Neg())
			swept = append(swept, -swept[i])
		}
	}
	return fields, swept, nil
}

// Frequencies returns n evenly spaced drive frequencies from fmin to fmax.
func Frequencies(fmin, fmax float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	return span(make([]float64, n), fmin, fmax)
}

// span fills dst like floats.Span and accepts a single point.
func span(dst []float64, lo, hi float64) []float64 {
	if len(dst) == 1 {
		dst[0] = lo
		return dst
	}
	return floats.Span(dst, lo, hi)
}

func direction(theta, phi float64) dynamo.Vector3 {
	st, ct := math.Sincos(theta * math.Pi / 180)
	sp, cp := math.Sincos(phi * math.Pi / 180)
	return dynamo.Vector3{X: st * cp, Y: st * sp, Z: ct}
}

// round2 rounds half to even at two decimals.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
