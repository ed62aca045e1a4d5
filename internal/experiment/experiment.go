// Package experiment runs configured junction simulations: a single
// trajectory or a field sweep combining PIMM and spin-diode runs.
package experiment

import (
	"context"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/mtjsim/internal/analysis"
	"github.com/san-kum/mtjsim/internal/config"
	"github.com/san-kum/mtjsim/internal/control"
	"github.com/san-kum/mtjsim/internal/dynamo"
	"github.com/san-kum/mtjsim/internal/logging"
	"github.com/san-kum/mtjsim/internal/readout"
	"github.com/san-kum/mtjsim/internal/sim"
	"github.com/san-kum/mtjsim/internal/stimulus"
)

// SweepPoint is the outcome of one field value of a sweep.
type SweepPoint struct {
	Index int            `json:"index"`
	Field dynamo.Vector3 `json:"field"`
	Swept float64        `json:"swept"`

	Final []dynamo.Vector3 `json:"m"`
	MAvg  dynamo.Vector3   `json:"m_avg"`
	Rx    float64          `json:"rx"`
	Ry    float64          `json:"ry"`
	Rz    float64          `json:"rz"`

	Spectrum    []float64 `json:"pimm"`
	Frequencies []float64 `json:"pimm_frequencies"`
	Peak        float64   `json:"pimm_peak"`

	SDFrequencies []float64 `json:"sd_frequencies"`
	SD            []float64 `json:"sd"`
}

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   log.Logger
}

func New(cfg *config.Config, logger log.Logger) *Experiment {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   logger,
	}
}

// Registry returns the integrators and drives the experiment resolves names
// against.
func (e *Experiment) Registry() *Registry {
	return e.registry
}

// Simulator builds a simulator for the configured stack and integrator with
// the given drive.
func (e *Experiment) Simulator(drive dynamo.Driver) (*sim.Simulator, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	stack, err := e.cfg.Stack()
	if err != nil {
		return nil, err
	}
	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return nil, err
	}
	return sim.New(stack, integ, drive), nil
}

func (e *Experiment) driveParams() DriveParams {
	return DriveParams{
		Pulse:     e.cfg.Stimulus.Pulse,
		Current:   e.cfg.Stimulus.Current,
		Frequency: e.cfg.Stimulus.Frequency,
	}
}

// Trajectory integrates the configured initial state in the configured
// external field with the configured drive.
func (e *Experiment) Trajectory(ctx context.Context) (*sim.Result, error) {
	s, m0, err := e.configured()
	if err != nil {
		return nil, err
	}
	ms, th := e.cfg.Moments()
	for _, m := range e.registry.DefaultMetrics(ms, th) {
		s.AddMetric(m)
	}
	s.AddObserver(newProgress(e.logger, e.cfg.Steps))

	level.Debug(e.logger).Log("msg", "trajectory", "layers", len(m0), "steps", e.cfg.Steps,
		"dt", e.cfg.Dt, "integrator", e.cfg.Integrator, "drive", e.cfg.Drive)
	return s.Run(ctx, m0, e.simConfig(e.cfg.ExternalField()))
}

// Stream integrates like Trajectory without recording anything. fn sees the
// state after every step and stops the run by returning false.
func (e *Experiment) Stream(ctx context.Context, fn func(step int, m sim.State, t float64) bool) (sim.State, error) {
	s, m0, err := e.configured()
	if err != nil {
		return nil, err
	}
	return s.RunWithCallback(ctx, m0, e.simConfig(e.cfg.ExternalField()), fn)
}

func (e *Experiment) configured() (*sim.Simulator, []dynamo.Vector3, error) {
	drive, err := e.registry.GetDriver(e.cfg.Drive, e.driveParams())
	if err != nil {
		return nil, nil, err
	}
	s, err := e.Simulator(drive)
	if err != nil {
		return nil, nil, err
	}
	m0, err := e.cfg.InitialMagnetization()
	if err != nil {
		return nil, nil, err
	}
	return s, m0, nil
}

func (e *Experiment) simConfig(hext dynamo.Vector3) sim.Config {
	return sim.Config{
		Dt:            e.cfg.Dt,
		Steps:         e.cfg.Steps,
		Hext:          hext,
		ValidateState: e.cfg.ValidateState,
	}
}

// Sweep walks the configured field sweep. Every field value gets a pulse
// run for the PIMM spectrum and the static readouts, then one sine run per
// spin-diode frequency. The pulse runs and the sine runs each carry their
// own magnetization from one run to the next. The PIMM signal is Hann
// windowed before the transform when the stimulus asks for it. fn receives
// every point in order and stops the sweep by returning an error.
func (e *Experiment) Sweep(ctx context.Context, fn func(SweepPoint) error) error {
	fields, swept, err := stimulus.Sweep(e.cfg.Stimulus.Config)
	if err != nil {
		return err
	}
	pulse := control.NewPulse(e.cfg.Stimulus.Pulse)
	s, err := e.Simulator(pulse)
	if err != nil {
		return err
	}

	mPIMM, err := e.sweepStart(fields[0])
	if err != nil {
		return err
	}
	mSD := sim.State(mPIMM).Clone()

	freqs := stimulus.Frequencies(e.cfg.Stimulus.FMin, e.cfg.Stimulus.FMax, e.cfg.Stimulus.FSteps)
	params := e.cfg.ResistanceParams()
	ms, th := e.cfg.Moments()

	level.Info(e.logger).Log("msg", "sweep started", "mode", e.cfg.Stimulus.Mode,
		"points", len(fields), "frequencies", len(freqs))

	for i, h := range fields {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
		}

		s.SetDriver(pulse)
		res, err := s.Run(ctx, mPIMM, e.simConfig(h))
		if err != nil {
			return fmt.Errorf("pimm run at H=%v: %w", h, err)
		}
		mPIMM = res.Final

		signal := res.PIMM
		if e.cfg.Stimulus.Window {
			signal = analysis.Hann(signal)
		}
		p := SweepPoint{
			Index:         i,
			Field:         h,
			Swept:         swept[i],
			Final:         res.Final,
			Spectrum:      analysis.PowerSpectrum(signal),
			Frequencies:   analysis.Frequencies(len(signal), e.cfg.Dt),
			SDFrequencies: freqs,
			SD:            make([]float64, 0, len(freqs)),
		}
		p.Peak = analysis.DominantFrequency(p.Spectrum, e.cfg.Dt, len(res.PIMM))
		if p.Rx, p.Ry, p.Rz, err = readout.Resistance(params, res.Final); err != nil {
			return err
		}
		if p.MAvg, err = readout.AverageMagnetization(ms, th, res.Final); err != nil {
			return err
		}

		for _, f := range freqs {
			s.SetDriver(control.NewSine(e.cfg.Stimulus.Current, f))
			res, err := s.Run(ctx, mSD, e.simConfig(h))
			if err != nil {
				return fmt.Errorf("spin-diode run at H=%v f=%g: %w", h, f, err)
			}
			mSD = res.Final

			v, err := readout.SpinDiodeVoltage(res.Current, res.Resistance, e.cfg.Dt, readout.DefaultCutoff)
			if err != nil {
				return err
			}
			p.SD = append(p.SD, v)
		}

		level.Debug(e.logger).Log("msg", "sweep point", "index", i, "swept", swept[i],
			"rx", p.Rx, "ry", p.Ry, "rz", p.Rz, "peak", p.Peak)

		if err := fn(p); err != nil {
			return err
		}
	}

	level.Info(e.logger).Log("msg", "sweep finished", "points", len(fields))
	return nil
}

// sweepStart aligns every layer with the first field of the sweep, falling
// back to the configured magnetization when that field is zero.
func (e *Experiment) sweepStart(h dynamo.Vector3) ([]dynamo.Vector3, error) {
	if h.Norm() == 0 {
		return e.cfg.InitialMagnetization()
	}
	m := make([]dynamo.Vector3, len(e.cfg.Layers))
	for i := range m {
		m[i] = h.Normalized()
	}
	return m, nil
}
