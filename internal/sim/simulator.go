package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/mtjsim/internal/dynamo"
	"github.com/san-kum/mtjsim/internal/physics"
	"github.com/san-kum/mtjsim/internal/readout"
)

// Edge is the neighbour seen by the outermost layers of the stack.
var Edge = dynamo.Vector3{X: 1}

// Spin-diode readout used for the dynamic resistance trace.
var diodeCurrent = dynamo.Vector3{X: 1}

const (
	diodeRLow   = 100.0
	diodeDeltaR = 0.1
)

type Simulator struct {
	stack      *dynamo.Stack
	integrator dynamo.Integrator
	driver     dynamo.Driver
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(stack *dynamo.Stack, integrator dynamo.Integrator, driver dynamo.Driver) *Simulator {
	return &Simulator{
		stack:      stack,
		integrator: integrator,
		driver:     driver,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Stack returns the parameters the simulator integrates.
func (s *Simulator) Stack() *dynamo.Stack { return s.stack }

// SetDriver replaces the Oersted driver for subsequent runs.
func (s *Simulator) SetDriver(d dynamo.Driver) { s.driver = d }

// Run integrates m0 for cfg.Steps steps. On cancellation or an invalid state
// the partial result is returned together with the error.
func (s *Simulator) Run(ctx context.Context, m0 []dynamo.Vector3, cfg Config) (*Result, error) {
	if err := s.validate(m0, cfg); err != nil {
		return nil, err
	}

	n := len(m0)
	_, drivesCurrent := s.driver.(currentSource)
	result := &Result{
		Times:      make([]float64, 0, cfg.Steps),
		States:     make([]State, 0, cfg.Steps),
		Resistance: make([]float64, 0, cfg.Steps),
		PIMM:       make([]float64, 0, cfg.Steps),
		Metrics:    make(map[string]float64),
	}
	if drivesCurrent {
		result.Current = make([]float64, 0, cfg.Steps)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	m := State(m0).Clone()
	layers := make([]physics.Layer, n)
	for l := range layers {
		layers[l] = physics.Layer{Index: l, Hext: cfg.Hext, Stack: s.stack}
	}

	var runErr error
	for i := 0; i < cfg.Steps; i++ {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
			break
		}

		t := float64(i) * cfg.Dt
		hoe := s.driver.Compute(i, t)

		if err := s.advance(m, layers, hoe, i, t, cfg); err != nil {
			runErr = err
			break
		}

		result.StepsTaken++
		result.Times = append(result.Times, t)
		result.States = append(result.States, m.Clone())
		result.Resistance = append(result.Resistance, dynamicResistance(m))
		result.PIMM = append(result.PIMM, m.Mz())
		if drivesCurrent {
			result.Current = append(result.Current, s.driver.(currentSource).Current(t))
		}

		for _, mt := range s.metrics {
			mt.Observe(m, hoe, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(i, m, hoe, t)
		}
	}

	for _, mt := range s.metrics {
		result.Metrics[mt.Name()] = mt.Value()
	}
	result.Final = m.Clone()

	return result, runErr
}

// RunWithCallback integrates like Run without recording. fn sees the state
// after every step and stops the run by returning false.
func (s *Simulator) RunWithCallback(ctx context.Context, m0 []dynamo.Vector3, cfg Config, fn func(step int, m State, t float64) bool) (State, error) {
	if err := s.validate(m0, cfg); err != nil {
		return nil, err
	}

	m := State(m0).Clone()
	layers := make([]physics.Layer, len(m))
	for l := range layers {
		layers[l] = physics.Layer{Index: l, Hext: cfg.Hext, Stack: s.stack}
	}

	for i := 0; i < cfg.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return m, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
		}

		t := float64(i) * cfg.Dt
		if err := s.advance(m, layers, s.driver.Compute(i, t), i, t, cfg); err != nil {
			return m, err
		}
		if !fn(i, m, t) {
			break
		}
	}
	return m, nil
}

// advance moves every layer by one step in order. Later layers see the
// already updated state of earlier ones.
func (s *Simulator) advance(m State, layers []physics.Layer, hoe dynamo.Vector3, step int, t float64, cfg Config) error {
	for l := range m {
		layer := &layers[l]
		layer.Top, layer.Bottom = neighbours(m, l)
		layer.Hoe = hoe

		m[l] = s.integrator.Step(layer, m[l], t, cfg.Dt)

		if cfg.ValidateState && !m[l].IsValid() {
			return &dynamo.SimulationError{
				Step:    step,
				Time:    t,
				Layer:   l,
				State:   m[l],
				Wrapped: dynamo.ErrInvalidState,
			}
		}
	}
	return nil
}

func neighbours(m State, l int) (top, bottom dynamo.Vector3) {
	top, bottom = Edge, Edge
	if l > 0 {
		top = m[l-1]
	}
	if l < len(m)-1 {
		bottom = m[l+1]
	}
	return top, bottom
}

func dynamicResistance(m State) float64 {
	if len(m) < 2 {
		return 0
	}
	return readout.SpinDiodeSignal(diodeCurrent, m[0], m[1], diodeRLow, diodeDeltaR)
}

func (s *Simulator) validate(m0 []dynamo.Vector3, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if len(m0) == 0 {
		return fmt.Errorf("%w: no layers", dynamo.ErrDimensionMismatch)
	}
	if s.stack == nil {
		return fmt.Errorf("%w: no stack", dynamo.ErrDimensionMismatch)
	}
	if err := s.stack.Validate(len(m0)); err != nil {
		return err
	}
	if i := State(m0).Invalid(); i >= 0 {
		return fmt.Errorf("%w: initial magnetization of layer %d is %v", dynamo.ErrInvalidState, i, m0[i])
	}
	return nil
}
