package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mtjsim/internal/dynamo"
	"github.com/san-kum/mtjsim/internal/readout"
	"github.com/san-kum/mtjsim/internal/stimulus"
)

const (
	DefaultDt         = 4e-12
	DefaultSteps      = 2000
	DefaultIntegrator = "rk4"
	DefaultDrive      = "pulse"
	DefaultFrequency  = 6.5e9
)

type Config struct {
	Integrator    string         `yaml:"integrator"`
	Drive         string         `yaml:"drive"`
	Dt            float64        `yaml:"dt"`
	Steps         int            `yaml:"steps"`
	Hext          [3]float64     `yaml:"hext"`
	ValidateState bool           `yaml:"validate_state"`
	Layers        []LayerConfig  `yaml:"layers"`
	Stimulus      StimulusConfig `yaml:"stimulus"`
}

// LayerConfig holds the magnetic and magnetoresistive constants of a layer.
type LayerConfig struct {
	Ms    float64    `yaml:"ms"`
	Ku    float64    `yaml:"ku"`
	J     float64    `yaml:"j"`
	Kdir  [3]float64 `yaml:"kdir"`
	Th    float64    `yaml:"th"`
	Alpha float64    `yaml:"alpha"`
	N     [3]float64 `yaml:"n"`
	Rx0   float64    `yaml:"rx0"`
	Ry0   float64    `yaml:"ry0"`
	AMR   float64    `yaml:"amr"`
	SMR   float64    `yaml:"smr"`
	AHE   float64    `yaml:"ahe"`
	W     float64    `yaml:"w"`
	L     float64    `yaml:"l"`
	Mag   [3]float64 `yaml:"mag"`
}

type StimulusConfig struct {
	stimulus.Config `yaml:",inline"`

	FMin      float64 `yaml:"fmin"`
	FMax      float64 `yaml:"fmax"`
	FSteps    int     `yaml:"fsteps"`
	Frequency float64 `yaml:"frequency"`
	Current   float64 `yaml:"current_amplitude"`
	Pulse     float64 `yaml:"pulse_amplitude"`
	Window    bool    `yaml:"window"`
}

func defaultLayer(ku float64) LayerConfig {
	return LayerConfig{
		Ms:    1.07,
		Ku:    ku,
		J:     4e-5,
		Kdir:  [3]float64{0, 0, 1},
		Th:    1e-9,
		Alpha: 0.01,
		N:     [3]float64{0, 0, 1},
		Rx0:   100,
		Ry0:   120,
		AMR:   0.02,
		SMR:   0.01,
		AHE:   0.01,
		W:     1,
		L:     1,
		Mag:   [3]float64{1, 1, 0},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: DefaultIntegrator,
		Drive:      DefaultDrive,
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Hext:       [3]float64{4e5, 4e5, 0},
		Layers:     []LayerConfig{defaultLayer(305e3), defaultLayer(728e3)},
		Stimulus: StimulusConfig{
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
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run parameters and builds the stack once to surface
// layer errors.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt = %g", dynamo.ErrParameterBounds, c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: steps = %d", dynamo.ErrParameterBounds, c.Steps)
	}
	if len(c.Layers) == 0 {
		return fmt.Errorf("%w: no layers configured", dynamo.ErrDimensionMismatch)
	}
	_, err := c.Stack()
	return err
}

// Stack converts the layer table into integrator parameters. Anisotropy axes
// are normalized and the demagnetization tensor is diagonal.
func (c *Config) Stack() (*dynamo.Stack, error) {
	n := len(c.Layers)
	s := &dynamo.Stack{
		Ms:    make([]float64, n),
		Ku:    make([]float64, n),
		Ju:    make([]float64, n),
		Kdir:  make([]dynamo.Vector3, n),
		Th:    make([]float64, n),
		Alpha: make([]float64, n),
		Demag: make([]dynamo.Tensor, n),
	}
	for i, l := range c.Layers {
		kdir := vec(l.Kdir)
		if kdir.Norm() == 0 {
			return nil, fmt.Errorf("layer %d: %w: anisotropy axis is zero", i, dynamo.ErrParameterBounds)
		}
		s.Ms[i] = l.Ms
		s.Ku[i] = l.Ku
		s.Ju[i] = l.J
		s.Kdir[i] = kdir.Normalized()
		s.Th[i] = l.Th
		s.Alpha[i] = l.Alpha
		s.Demag[i] = dynamo.DiagonalTensor(l.N[0], l.N[1], l.N[2])
	}
	if err := s.Validate(n); err != nil {
		return nil, err
	}
	return s, nil
}

// InitialMagnetization returns each layer's normalized starting direction.
func (c *Config) InitialMagnetization() ([]dynamo.Vector3, error) {
	m := make([]dynamo.Vector3, len(c.Layers))
	for i, l := range c.Layers {
		v := vec(l.Mag)
		if v.Norm() == 0 {
			return nil, fmt.Errorf("layer %d: %w", i, dynamo.ErrZeroMagnetization)
		}
		m[i] = v.Normalized()
	}
	return m, nil
}

func (c *Config) ResistanceParams() []readout.ResistanceParams {
	p := make([]readout.ResistanceParams, len(c.Layers))
	for i, l := range c.Layers {
		p[i] = readout.ResistanceParams{
			Rx0: l.Rx0, Ry0: l.Ry0,
			AMR: l.AMR, SMR: l.SMR, AHE: l.AHE,
			W: l.W, L: l.L,
		}
	}
	return p
}

// Moments returns the per-layer Ms and thickness used for weighted averages.
func (c *Config) Moments() (ms, th []float64) {
	ms = make([]float64, len(c.Layers))
	th = make([]float64, len(c.Layers))
	for i, l := range c.Layers {
		ms[i], th[i] = l.Ms, l.Th
	}
	return ms, th
}

func (c *Config) ExternalField() dynamo.Vector3 {
	return vec(c.Hext)
}

// Clone returns a deep copy, so presets can be edited by the caller.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Layers = append([]LayerConfig(nil), c.Layers...)
	return &cp
}

// SetLayerParam sets one scalar constant of a layer by its YAML key.
func (c *Config) SetLayerParam(layer int, name string, v float64) error {
	if layer < 0 || layer >= len(c.Layers) {
		return fmt.Errorf("%w: layer %d of %d", dynamo.ErrDimensionMismatch, layer, len(c.Layers))
	}
	l := &c.Layers[layer]
	switch name {
	case "ms":
		l.Ms = v
	case "ku":
		l.Ku = v
	case "j":
		l.J = v
	case "th":
		l.Th = v
	case "alpha":
		l.Alpha = v
	case "rx0":
		l.Rx0 = v
	case "ry0":
		l.Ry0 = v
	case "amr":
		l.AMR = v
	case "smr":
		l.SMR = v
	case "ahe":
		l.AHE = v
	default:
		return fmt.Errorf("%w: unknown layer parameter %q", dynamo.ErrParameterBounds, name)
	}
	return nil
}

func vec(a [3]float64) dynamo.Vector3 {
	return dynamo.Vector3{X: a[0], Y: a[1], Z: a[2]}
}
