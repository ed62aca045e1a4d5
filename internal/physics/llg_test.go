package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mtjsim/internal/dynamo"
	"github.com/san-kum/mtjsim/internal/integrators"
	"github.com/san-kum/mtjsim/internal/physics"
)

var (
	xHat = dynamo.Vector3{X: 1}
	yHat = dynamo.Vector3{Y: 1}
	zHat = dynamo.Vector3{Z: 1}
	zero = dynamo.Vector3{}
)

func singleLayer(alpha float64) *dynamo.Stack {
	return &dynamo.Stack{
		Ms:    []float64{1},
		Ku:    []float64{0},
		Ju:    []float64{0},
		Kdir:  []dynamo.Vector3{zHat},
		Th:    []float64{1},
		Alpha: []float64{alpha},
		Demag: []dynamo.Tensor{{}},
	}
}

func threeLayers(ju float64) *dynamo.Stack {
	return &dynamo.Stack{
		Ms:    []float64{1, 1, 1},
		Ku:    []float64{0, 0, 0},
		Ju:    []float64{ju, 999},
		Kdir:  []dynamo.Vector3{zHat, zHat, zHat},
		Th:    []float64{1, 1, 1},
		Alpha: []float64{0, 0, 0},
		Demag: []dynamo.Tensor{{}, {}, {}},
	}
}

func beNear(want dynamo.Vector3, tol float64) OmegaMatcher {
	return WithTransform(func(v dynamo.Vector3) float64 { return v.Sub(want).Norm() }, BeNumerically("<=", tol))
}

var _ = Describe("EffectiveField", func() {
	It("adds the external and Oersted fields", func() {
		s := singleLayer(0)
		h := physics.EffectiveField(zHat, xHat, xHat, dynamo.Vector3{X: 1, Y: 2}, dynamo.Vector3{Z: 3}, 0, s)
		Expect(h).To(Equal(dynamo.Vector3{X: 1, Y: 2, Z: 3}))
	})

	It("projects the anisotropy axis by 2Ku/Ms and the alignment", func() {
		s := singleLayer(0)
		s.Ku[0] = 5e4
		s.Ms[0] = 2
		m := dynamo.Vector3{X: 0.6, Z: 0.8}

		h := physics.EffectiveField(m, xHat, xHat, zero, zero, 0, s)
		Expect(h).To(beNear(dynamo.Vector3{Z: 2 * 5e4 / 2 * 0.8}, 1e-9))
	})

	It("opposes the magnetization along the demagnetizing axis", func() {
		s := singleLayer(0)
		s.Demag[0] = dynamo.DiagonalTensor(0, 0, 1)

		h := physics.EffectiveField(zHat, xHat, xHat, zero, zero, 0, s)
		Expect(h.Z).To(BeNumerically("~", -1/dynamo.Physical.Mu0, 1e-6))
		Expect(h.X).To(BeZero())
		Expect(h.Y).To(BeZero())
	})

	It("matches the signed tensor interaction of the binding", func() {
		s := singleLayer(0)
		s.Ms[0] = 1.3
		s.Demag[0] = dynamo.Tensor{{X: 0.1, Y: 0.02}, {X: 0.02, Y: 0.2}, {Z: 0.7}}
		m := dynamo.Vector3{X: 0.3, Y: -0.4, Z: 0.866}

		h := physics.EffectiveField(m, xHat, xHat, zero, zero, 0, s)
		want := s.Demag[0].Interaction(m, -1).Scale(s.Ms[0] / dynamo.Physical.Mu0).Neg()
		Expect(h).To(beNear(want, 1e-6))
	})

	Context("interlayer exchange", func() {
		It("couples layer 0 to the layer below", func() {
			s := threeLayers(2.5)
			h := physics.EffectiveField(zHat, yHat, xHat, zero, zero, 0, s)
			Expect(h).To(beNear(xHat.Sub(zHat).Scale(2.5), 1e-12))
		})

		It("couples layer 1 to the layer above with Ju[0]", func() {
			s := threeLayers(2.5)
			h := physics.EffectiveField(zHat, yHat, xHat, zero, zero, 1, s)
			Expect(h).To(beNear(yHat.Sub(zHat).Scale(2.5), 1e-12))
		})

		It("leaves deeper layers uncoupled", func() {
			s := threeLayers(2.5)
			h := physics.EffectiveField(zHat, yHat, xHat, zero, zero, 2, s)
			Expect(h).To(Equal(zero))
		})

		It("scales with 1/(Ms*th)", func() {
			s := threeLayers(2.5)
			s.Ms[0] = 2
			s.Th[0] = 4
			h := physics.EffectiveField(zHat, yHat, xHat, zero, zero, 0, s)
			Expect(h).To(beNear(xHat.Sub(zHat).Scale(2.5/8), 1e-12))
		})
	})
})

var _ = Describe("LLG", func() {
	It("vanishes when the field is parallel to m without damping", func() {
		s := singleLayer(0)
		Expect(physics.LLG(zHat, xHat, xHat, zHat.Scale(1e4), zero, 0, s)).To(Equal(zero))
	})

	It("vanishes when the field is parallel to m with damping", func() {
		s := singleLayer(0.5)
		Expect(physics.LLG(zHat, xHat, xHat, zHat.Scale(1e4), zero, 0, s)).To(Equal(zero))
	})

	It("precesses counter-clockwise about the field", func() {
		s := singleLayer(0)
		dm := physics.LLG(xHat, xHat, xHat, zHat, zero, 0, s)
		Expect(dm).To(beNear(dynamo.Vector3{Y: dynamo.Physical.PerGyr}, 1e-9))
	})

	It("damps towards the field", func() {
		s := singleLayer(0.1)
		dm := physics.LLG(xHat, xHat, xHat, zHat, zero, 0, s)
		Expect(dm.Z).To(BeNumerically(">", 0))
		Expect(dm.Z).To(BeNumerically("~", 0.1*dynamo.Physical.PerGyr, 1e-6))
	})

	It("is perpendicular to m", func() {
		s := threeLayers(1e-3)
		s.Ku = []float64{1e5, 2e5, 0}
		s.Kdir[1] = xHat
		s.Alpha = []float64{0.02, 0.05, 0.01}
		s.Demag[0] = dynamo.DiagonalTensor(0.1, 0.1, 0.8)
		m := dynamo.Vector3{X: 0.48, Y: 0.6, Z: 0.64}

		for layer := 0; layer < 3; layer++ {
			dm := physics.LLG(m, yHat, xHat, dynamo.Vector3{X: 3e4, Z: -1e4}, dynamo.Vector3{Y: 500}, layer, s)
			Expect(math.Abs(dm.Dot(m)) / dm.Norm()).To(BeNumerically("<", 1e-12))
		}
	})

	It("is deterministic", func() {
		s := threeLayers(1e-3)
		m := dynamo.Vector3{X: 0.48, Y: 0.6, Z: 0.64}
		a := physics.LLG(m, yHat, xHat, xHat, yHat, 1, s)
		b := physics.LLG(m, yHat, xHat, xHat, yHat, 1, s)
		Expect(a).To(Equal(b))
	})
})

var _ = Describe("Layer with RK4", func() {
	It("keeps a magnetization aligned with the field", func() {
		s := singleLayer(0.01)
		layer := physics.NewLayer(xHat, xHat, zHat, zero, 0, s)

		m := integrators.NewRK4().Step(layer, zHat, 0, 1e-4)
		Expect(m).To(beNear(zHat, 1e-9))
		Expect(m.Norm()).To(BeNumerically("~", 1, 1e-15))
	})

	It("traces a circle of constant polar angle without damping", func() {
		s := singleLayer(0)
		hz := 1e3
		omega := dynamo.Physical.PerGyr * hz
		theta := 0.4
		st, ct := math.Sincos(theta)

		layer := physics.NewLayer(xHat, xHat, zHat.Scale(hz), zero, 0, s)
		rk4 := integrators.NewRK4()
		m := dynamo.Vector3{X: st, Z: ct}
		dt := 1e-12
		steps := 1000

		for i := 0; i < steps; i++ {
			m = rk4.Step(layer, m, float64(i)*dt, dt)
		}

		tEnd := float64(steps) * dt
		want := dynamo.Vector3{X: st * math.Cos(omega*tEnd), Y: st * math.Sin(omega*tEnd), Z: ct}
		Expect(m).To(beNear(want, 1e-9))
		Expect(m.Z).To(BeNumerically("~", ct, 1e-12))
	})

	It("relaxes towards the field with damping", func() {
		s := singleLayer(0.1)
		layer := physics.NewLayer(xHat, xHat, zHat.Scale(1e4), zero, 0, s)
		rk4 := integrators.NewRK4()
		m := dynamo.Vector3{X: 1, Z: 0.1}.Normalized()
		start := m.Z

		for i := 0; i < 2000; i++ {
			m = rk4.Step(layer, m, 0, 1e-11)
		}
		Expect(m.Z).To(BeNumerically(">", start))
	})

	It("exposes layer parameters", func() {
		s := threeLayers(0.5)
		layer := physics.NewLayer(xHat, xHat, zHat, zero, 1, s)
		Expect(layer.GetParams()).To(HaveKeyWithValue("Ju", 0.5))

		Expect(layer.SetParam("alpha", 0.3)).To(Succeed())
		Expect(s.Alpha[1]).To(Equal(0.3))
		Expect(layer.SetParam("bogus", 1)).To(MatchError(dynamo.ErrParameterBounds))
	})
})
