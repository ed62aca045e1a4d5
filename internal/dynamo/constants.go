package dynamo

import "math"

// Constants is the table of physical constants used by the field model and
// the torque equation.
type Constants struct {
	Mu0            float64 // magnetic permeability (H/m)
	Gyro           float64 // gyromagnetic ratio (m/(A s))
	PerGyr         float64 // gamma' used in the LLG torque
	TtoAm          float64 // tesla to A/m
	Hbar           float64 // reduced Planck constant (J s)
	ElectronCharge float64 // elementary charge (C)
	Boltzmann      float64 // Boltzmann constant (J/K)
}

// Physical is initialized once and never mutated.
var Physical = Constants{
	Mu0:            12.57e-7,
	Gyro:           221000.0,
	PerGyr:         220880.0,
	TtoAm:          795774.715459,
	Hbar:           6.62607015e-34 / (2. * math.Pi),
	ElectronCharge: 1.60217662e-19,
	Boltzmann:      1.380649e-23,
}
