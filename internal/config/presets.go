package config

import (
	"slices"

	"github.com/san-kum/mtjsim/internal/stimulus"
)

func bilayer(ku0, ku1, j float64) []LayerConfig {
	a, b := defaultLayer(ku0), defaultLayer(ku1)
	a.J, b.J = j, j
	return []LayerConfig{a, b}
}

func single(kdir, mag [3]float64, n [3]float64) []LayerConfig {
	l := defaultLayer(3e5)
	l.Kdir, l.Mag, l.N = kdir, mag, n
	return []LayerConfig{l}
}

var fieldSweep = StimulusConfig{
	Config: stimulus.Config{
		Mode:  stimulus.ModeH,
		HMin:  0,
		HMax:  800e3,
		Theta: 90,
		Phi:   45,
		Steps: 20,
	},
	FMin:      1e9,
	FMax:      10e9,
	FSteps:    10,
	Frequency: DefaultFrequency,
	Current:   20000,
	Pulse:     10000,
}

// newPreset builds an RK4 configuration over the default field sweep.
func newPreset(drive string, dt float64, steps int, hext [3]float64, layers []LayerConfig) *Config {
	return &Config{
		Integrator: DefaultIntegrator,
		Drive:      drive,
		Dt:         dt,
		Steps:      steps,
		Hext:       hext,
		Layers:     layers,
		Stimulus:   fieldSweep,
	}
}

var Presets = map[string]map[string]*Config{
	"bilayer": {
		"pimm":      newPreset("pulse", 4e-12, 2000, [3]float64{4e5, 4e5, 0}, bilayer(305e3, 728e3, 4e-5)),
		"vsd":       newPreset("sine", 4e-12, 2000, [3]float64{2e5, 2e5, 0}, bilayer(305e3, 728e3, 4e-5)),
		"antiferro": newPreset("pulse", 2e-12, 4000, [3]float64{1e5, 0, 0}, bilayer(305e3, 305e3, -1e-4)),
	},
	"single": {
		"free":          newPreset("none", 1e-12, 2000, [3]float64{0, 0, 1e5}, single([3]float64{1, 0, 0}, [3]float64{1, 0, 0.2}, [3]float64{0, 0, 0})),
		"perpendicular": newPreset("pulse", 2e-12, 2000, [3]float64{2e5, 0, 0}, single([3]float64{0, 0, 1}, [3]float64{0, 0, 1}, [3]float64{0, 0, 1})),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(stack, preset string) *Config {
	stackPresets, ok := Presets[stack]
	if !ok {
		return nil
	}
	cfg, ok := stackPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(stack string) []string {
	stackPresets, ok := Presets[stack]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(stackPresets))
	for name := range stackPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ListStacks returns the preset families.
func ListStacks() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
