package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mtjsim/internal/config"
	"github.com/san-kum/mtjsim/internal/dynamo"
	"github.com/san-kum/mtjsim/internal/experiment"
	"github.com/san-kum/mtjsim/internal/logging"
	"github.com/san-kum/mtjsim/internal/readout"
	"github.com/san-kum/mtjsim/internal/sim"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (stack/name, default config when empty)
// and applies its overrides before running.
type ScenarioStep struct {
	Name       string       `yaml:"name"`
	Preset     string       `yaml:"preset"`
	Integrator string       `yaml:"integrator"`
	Drive      string       `yaml:"drive"`
	Dt         float64      `yaml:"dt"`
	Steps      int          `yaml:"steps"`
	Hext       *[3]float64  `yaml:"hext"`
	Params     []LayerParam `yaml:"params"`
	Sweep      bool         `yaml:"sweep"`
}

type LayerParam struct {
	Layer int     `yaml:"layer"`
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

// StepResult holds a trajectory, or the points of a sweep when the step
// asked for one.
type StepResult struct {
	Name   string
	Result *sim.Result
	Points []experiment.SweepPoint
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves the step into a validated configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		stack, name, ok := strings.Cut(s.Preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be stack/name, got %q", s.Preset)
		}
		if cfg = config.GetPreset(stack, name); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}

	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Drive != "" {
		cfg.Drive = s.Drive
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Steps != 0 {
		cfg.Steps = s.Steps
	}
	if s.Hext != nil {
		cfg.Hext = *s.Hext
	}
	for _, p := range s.Params {
		if err := cfg.SetLayerParam(p.Layer, p.Name, p.Value); err != nil {
			return nil, err
		}
	}

	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, logger log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		level.Info(logger).Log("msg", "scenario step", "step", i+1, "of", len(scenario.Steps), "name", name)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, logger)
		out := StepResult{Name: name}
		if step.Sweep {
			err = exp.Sweep(ctx, func(p experiment.SweepPoint) error {
				out.Points = append(out.Points, p)
				return nil
			})
		} else {
			out.Result, err = exp.Trajectory(ctx)
		}
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, out)
	}

	return results, nil
}

// ParameterSweep varies one layer constant over a linear range and runs a
// trajectory for each value.
type ParameterSweep struct {
	Base     *config.Config
	Layer    int
	Param    string
	Min      float64
	Max      float64
	NumSteps int
}

type SweepResult struct {
	Value   float64
	Final   sim.State
	Rx      float64
	Ry      float64
	Rz      float64
	Metrics map[string]float64
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, logger log.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", dynamo.ErrParameterBounds)
	}

	values := []float64{sweep.Min}
	if sweep.NumSteps > 1 {
		values = floats.Span(make([]float64, sweep.NumSteps), sweep.Min, sweep.Max)
	}
	params := sweep.Base.ResistanceParams()
	results := make([]SweepResult, 0, len(values))

	for i, v := range values {
		cfg := sweep.Base.Clone()
		if err := cfg.SetLayerParam(sweep.Layer, sweep.Param, v); err != nil {
			return nil, err
		}

		result, err := experiment.New(cfg, logger).Trajectory(ctx)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}

		r := SweepResult{Value: v, Final: result.Final, Metrics: result.Metrics}
		if r.Rx, r.Ry, r.Rz, err = readout.Resistance(params, result.Final); err != nil {
			return results, err
		}
		results = append(results, r)

		level.Debug(logger).Log("msg", "parameter sweep", "point", i+1, "of", len(values), sweep.Param, v)
	}

	return results, nil
}

// MonteCarloConfig perturbs the initial magnetization of every layer by a
// random vector of up to Perturbation in each component.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID int
	Initial sim.State
	Final   sim.State
	Stable  bool
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger log.Logger) ([]MonteCarloResult, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		run := cfg.Base.Clone()
		for i := range run.Layers {
			for k := range run.Layers[i].Mag {
				run.Layers[i].Mag[k] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
			}
		}
		initial, err := run.InitialMagnetization()
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		result, err := experiment.New(run, logger).Trajectory(ctx)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Initial: initial,
			Final:   result.Final,
			Stable:  result.Final.IsValid() && result.Metrics["stability"] == 1,
		})

		if (trial+1)%10 == 0 {
			level.Info(logger).Log("msg", "monte carlo", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts stable trials and summarizes the final mz of the
// given layer over them.
func MonteCarloStats(results []MonteCarloResult, layer int) (stable, unstable int, meanMz, stdMz float64) {
	mz := make([]float64, 0, len(results))
	for _, r := range results {
		if !r.Stable {
			unstable++
			continue
		}
		stable++
		if layer < len(r.Final) {
			mz = append(mz, r.Final[layer].Z)
		}
	}
	switch {
	case len(mz) == 1:
		meanMz = mz[0]
	case len(mz) > 1:
		meanMz, stdMz = stat.MeanStdDev(mz, nil)
	}
	return stable, unstable, meanMz, stdMz
}
