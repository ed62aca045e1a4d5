package experiment

import (
	"fmt"
	"slices"

	"github.com/san-kum/mtjsim/internal/control"
	"github.com/san-kum/mtjsim/internal/dynamo"
	"github.com/san-kum/mtjsim/internal/integrators"
	"github.com/san-kum/mtjsim/internal/metrics"
)

// DriveParams configures the drivers a registry builds.
type DriveParams struct {
	Pulse     float64
	Current   float64
	Frequency float64
	Field     dynamo.Vector3
}

type Registry struct {
	integrators map[string]func() dynamo.Integrator
	drives      map[string]func(DriveParams) dynamo.Driver
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		drives:      make(map[string]func(DriveParams) dynamo.Driver),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["heun"] = func() dynamo.Integrator { return integrators.NewHeun() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	r.drives["none"] = func(DriveParams) dynamo.Driver { return control.NewNone() }
	r.drives["pulse"] = func(p DriveParams) dynamo.Driver {
		amp := p.Pulse
		if amp == 0 {
			amp = control.DefaultPulseAmplitude
		}
		return control.NewPulse(amp)
	}
	r.drives["sine"] = func(p DriveParams) dynamo.Driver {
		return control.NewSine(p.Current, p.Frequency)
	}
	r.drives["constant"] = func(p DriveParams) dynamo.Driver {
		return control.NewConstant(p.Field)
	}

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetDriver(name string, params DriveParams) (dynamo.Driver, error) {
	fn, ok := r.drives[name]
	if !ok {
		return nil, fmt.Errorf("unknown drive: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) ListDrives() []string {
	return sortedKeys(r.drives)
}

// DefaultMetrics returns fresh metrics for a stack with the given moments.
func (r *Registry) DefaultMetrics(ms, th []float64) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewStability(1e-6),
		metrics.NewNormDrift(),
		metrics.NewDriveEffort(),
		metrics.NewMeanMz(ms, th),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
