package metrics

import (
	"math"

	"github.com/san-kum/mtjsim/internal/dynamo"
)

// Stability is the fraction of observed steps in which every layer is finite
// and stays within threshold of unit length.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(m []dynamo.Vector3, hoe dynamo.Vector3, t float64) {
	s.samples++
	for _, v := range m {
		if !v.IsValid() || math.Abs(v.Norm()-1) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
