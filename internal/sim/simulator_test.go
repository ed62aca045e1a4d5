package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mtjsim/internal/control"
	"github.com/san-kum/mtjsim/internal/dynamo"
	"github.com/san-kum/mtjsim/internal/integrators"
	"github.com/san-kum/mtjsim/internal/metrics"
	"github.com/san-kum/mtjsim/internal/physics"
	"github.com/san-kum/mtjsim/internal/sim"
)

var (
	xHat = dynamo.Vector3{X: 1}
	yHat = dynamo.Vector3{Y: 1}
	zHat = dynamo.Vector3{Z: 1}
)

func stackOf(n int, alpha float64) *dynamo.Stack {
	s := &dynamo.Stack{Ju: []float64{0}}
	for i := 0; i < n; i++ {
		s.Ms = append(s.Ms, 1)
		s.Ku = append(s.Ku, 0)
		s.Kdir = append(s.Kdir, zHat)
		s.Th = append(s.Th, 1)
		s.Alpha = append(s.Alpha, alpha)
		s.Demag = append(s.Demag, dynamo.Tensor{})
	}
	return s
}

type call struct {
	layer       int
	top, bottom dynamo.Vector3
	hoe         dynamo.Vector3
}

// recorder replaces every layer with z and remembers what it was shown.
type recorder struct {
	calls []call
	out   dynamo.Vector3
}

func (r *recorder) Step(sys dynamo.System, m dynamo.Vector3, t, dt float64) dynamo.Vector3 {
	l := sys.(*physics.Layer)
	r.calls = append(r.calls, call{layer: l.Index, top: l.Top, bottom: l.Bottom, hoe: l.Hoe})
	return r.out
}

type stopAfter struct {
	n      int
	cancel context.CancelFunc
}

func (s *stopAfter) OnStep(step int, m []dynamo.Vector3, hoe dynamo.Vector3, t float64) {
	if step == s.n {
		s.cancel()
	}
}

var _ = Describe("Simulator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("records one entry per step", func() {
		s := sim.New(stackOf(2, 0.01), integrators.NewRK4(), control.NewNone())
		res, err := s.Run(ctx, []dynamo.Vector3{xHat, xHat}, sim.Config{Dt: 1e-12, Steps: 10, Hext: xHat.Scale(1e4)})

		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(10))
		Expect(res.Times).To(HaveLen(10))
		Expect(res.States).To(HaveLen(10))
		Expect(res.Resistance).To(HaveLen(10))
		Expect(res.PIMM).To(HaveLen(10))
		Expect(res.Current).To(BeNil())
		Expect(res.Times[3]).To(BeNumerically("~", 3e-12, 1e-24))
		Expect(res.Final).To(Equal(res.States[9]))
	})

	It("keeps a layer aligned with the applied field at rest", func() {
		s := sim.New(stackOf(1, 0.01), integrators.NewRK4(), control.NewNone())
		res, err := s.Run(ctx, []dynamo.Vector3{zHat}, sim.Config{Dt: 1e-4, Steps: 5, Hext: zHat})

		Expect(err).NotTo(HaveOccurred())
		for _, st := range res.States {
			Expect(st[0].Equal(zHat, 1e-12)).To(BeTrue())
			Expect(st[0].Norm()).To(BeNumerically("~", 1, 1e-15))
		}
		Expect(res.Resistance).To(HaveEach(0.0))
		Expect(res.PIMM).To(HaveEach(BeNumerically("~", 1, 1e-12)))
	})

	It("precesses a free layer at the Larmor frequency", func() {
		hz := 1e3
		omega := dynamo.Physical.PerGyr * hz
		st, ct := math.Sincos(0.5)
		dt := 1e-12

		s := sim.New(stackOf(1, 0), integrators.NewRK4(), control.NewNone())
		res, err := s.Run(ctx, []dynamo.Vector3{{X: st, Z: ct}}, sim.Config{Dt: dt, Steps: 500, Hext: zHat.Scale(hz)})
		Expect(err).NotTo(HaveOccurred())

		tEnd := 500 * dt
		want := dynamo.Vector3{X: st * math.Cos(omega*tEnd), Y: st * math.Sin(omega*tEnd), Z: ct}
		Expect(res.Final[0].Equal(want, 1e-9)).To(BeTrue())
	})

	It("updates layers in order with frozen neighbours", func() {
		rec := &recorder{out: zHat}
		s := sim.New(stackOf(3, 0), rec, control.NewPulse(7))
		_, err := s.Run(ctx, []dynamo.Vector3{xHat, yHat, yHat}, sim.Config{Dt: 1, Steps: 1})
		Expect(err).NotTo(HaveOccurred())

		Expect(rec.calls).To(Equal([]call{
			{layer: 0, top: sim.Edge, bottom: yHat, hoe: zHat.Scale(7)},
			{layer: 1, top: zHat, bottom: yHat, hoe: zHat.Scale(7)},
			{layer: 2, top: zHat, bottom: sim.Edge, hoe: zHat.Scale(7)},
		}))
	})

	It("gives a single layer the edge on both sides", func() {
		rec := &recorder{out: zHat}
		s := sim.New(stackOf(1, 0), rec, control.NewNone())
		_, err := s.Run(ctx, []dynamo.Vector3{yHat}, sim.Config{Dt: 1, Steps: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.calls).To(ConsistOf(call{layer: 0, top: sim.Edge, bottom: sim.Edge}))
	})

	It("reads the spin-diode resistance and PIMM signal of the first layers", func() {
		rec := &recorder{out: xHat}
		s := sim.New(stackOf(3, 0), rec, control.NewNone())
		res, err := s.Run(ctx, []dynamo.Vector3{zHat, zHat, zHat}, sim.Config{Dt: 1, Steps: 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Resistance).To(HaveEach(BeNumerically("~", 200.2, 1e-12)))
		Expect(res.PIMM).To(HaveEach(0.0))
	})

	It("records the drive current of a sine drive", func() {
		drive := control.NewSine(control.DefaultCurrentAmplitude, 1e9)
		s := sim.New(stackOf(2, 0.01), integrators.NewRK4(), drive)
		res, err := s.Run(ctx, []dynamo.Vector3{xHat, xHat}, sim.Config{Dt: 1e-12, Steps: 300})
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Current).To(HaveLen(300))
		Expect(res.Current[250]).To(BeNumerically("~", drive.Current(250e-12), 1e-9))
	})

	It("feeds metrics and observers every step", func() {
		s := sim.New(stackOf(2, 0.01), integrators.NewRK4(), control.NewPulse(control.DefaultPulseAmplitude))
		s.AddMetric(metrics.NewStability(1e-6))
		s.AddMetric(metrics.NewDriveEffort())

		res, err := s.Run(ctx, []dynamo.Vector3{xHat, xHat}, sim.Config{Dt: 1e-13, Steps: 100, Hext: xHat.Scale(1e5)})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics).To(HaveKeyWithValue("stability", 1.0))
		Expect(res.Metrics["drive_effort"]).To(BeNumerically("~", 100.0, 1e-9))
	})

	It("returns the partial result when the context is canceled", func() {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()

		s := sim.New(stackOf(1, 0.01), integrators.NewRK4(), control.NewNone())
		s.AddObserver(&stopAfter{n: 4, cancel: cancel})

		res, err := s.Run(cctx, []dynamo.Vector3{xHat}, sim.Config{Dt: 1e-12, Steps: 100, Hext: zHat})
		Expect(err).To(MatchError(context.Canceled))
		Expect(errors.Is(err, dynamo.ErrContextCanceled)).To(BeTrue())
		Expect(res.StepsTaken).To(Equal(5))
		Expect(res.Final).To(Equal(res.States[4]))
	})

	It("aborts on a non-finite state when validation is enabled", func() {
		rec := &recorder{out: dynamo.Vector3{X: math.NaN()}}
		s := sim.New(stackOf(2, 0), rec, control.NewNone())

		res, err := s.Run(ctx, []dynamo.Vector3{xHat, xHat}, sim.Config{Dt: 1, Steps: 3, ValidateState: true})
		Expect(err).To(MatchError(dynamo.ErrInvalidState))

		var simErr *dynamo.SimulationError
		Expect(errors.As(err, &simErr)).To(BeTrue())
		Expect(simErr.Step).To(Equal(0))
		Expect(simErr.Layer).To(Equal(0))
		Expect(res.StepsTaken).To(BeZero())
	})

	It("streams states to a callback", func() {
		s := sim.New(stackOf(2, 0.01), integrators.NewRK4(), control.NewNone())
		seen := 0
		final, err := s.RunWithCallback(ctx, []dynamo.Vector3{xHat, yHat}, sim.Config{Dt: 1e-12, Steps: 50, Hext: zHat.Scale(1e4)},
			func(step int, m sim.State, t float64) bool {
				seen++
				return step < 9
			})
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal(10))
		Expect(final).To(HaveLen(2))
	})

	DescribeTable("rejects invalid input",
		func(m0 []dynamo.Vector3, cfg sim.Config, want error) {
			s := sim.New(stackOf(2, 0.01), integrators.NewRK4(), control.NewNone())
			_, err := s.Run(ctx, m0, cfg)
			Expect(err).To(HaveOccurred())
			if want != nil {
				Expect(err).To(MatchError(want))
			}
		},
		Entry("zero dt", []dynamo.Vector3{xHat, xHat}, sim.Config{Dt: 0, Steps: 10}, nil),
		Entry("negative dt", []dynamo.Vector3{xHat, xHat}, sim.Config{Dt: -1e-12, Steps: 10}, nil),
		Entry("zero steps", []dynamo.Vector3{xHat, xHat}, sim.Config{Dt: 1e-12}, nil),
		Entry("too many layers", []dynamo.Vector3{xHat, xHat, xHat}, sim.Config{Dt: 1e-12, Steps: 1}, dynamo.ErrDimensionMismatch),
		Entry("no layers", []dynamo.Vector3{}, sim.Config{Dt: 1e-12, Steps: 1}, dynamo.ErrDimensionMismatch),
		Entry("NaN start", []dynamo.Vector3{xHat, {Y: math.NaN()}}, sim.Config{Dt: 1e-12, Steps: 1}, dynamo.ErrInvalidState),
	)
})
