package reactor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/reactorsim/internal/dynamo"
	"github.com/san-kum/reactorsim/internal/reactor"
)

// reference is a direct transcription of the update rule, reading only
// index i-1 values for every reactor.
func reference(p reactor.Params) (t, c1, c2, c3 []float64) {
	n := p.StepCount()
	t, c1, c2, c3 = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	q, v, in := p.Flows, p.Volumes, p.Inputs
	c1[0], c2[0], c3[0] = p.Initial.C1, p.Initial.C2, p.Initial.C3
	for i := 1; i < n; i++ {
		t[i] = t[i-1] + p.DeltaT
		rate1 := (q.Q01*in.Put1 + q.Q31*c3[i-1] - q.Q12*c1[i-1]) / v.V1
		rate2 := (q.Q12*c1[i-1] - q.Q23*c2[i-1]) / v.V2
		rate3 := (q.Q23*c2[i-1] + q.Q03*in.Put2 - q.Q31*c3[i-1] - q.Q33*c3[i-1]) / v.V3
		c1[i] = c1[i-1] + rate1*p.DeltaT
		c2[i] = c2[i-1] + rate2*p.DeltaT
		c3[i] = c3[i-1] + rate3*p.DeltaT
	}
	return
}

var _ = Describe("Integrate", func() {
	It("seeds index 0 with t = 0 and the initial concentrations", func() {
		p := fixture()
		p.Initial = reactor.Initial{C1: 0.3, C2: 0.2, C3: 0.1}

		ts, err := reactor.Integrate(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(ts.Time[0]).To(Equal(0.0))
		Expect(ts.At(0)).To(Equal(dynamo.State{0.3, 0.2, 0.1}))
	})

	It("produces StepCount samples in every series", func() {
		ts, err := reactor.Integrate(fixture())
		Expect(err).NotTo(HaveOccurred())
		Expect(ts.Len()).To(Equal(10))
		for _, c := range ts.Reactors() {
			Expect(c).To(HaveLen(10))
		}
	})

	It("matches the hand-computed first step", func() {
		p := fixture()
		ts, err := reactor.Integrate(p)
		Expect(err).NotTo(HaveOccurred())

		q, v, in, c0 := p.Flows, p.Volumes, p.Inputs, p.Initial
		Expect(ts.Time[1]).To(Equal(0.0 + p.DeltaT))
		Expect(ts.C1[1]).To(Equal(c0.C1 + (q.Q01*in.Put1+q.Q31*c0.C3-q.Q12*c0.C1)/v.V1*p.DeltaT))
		Expect(ts.C2[1]).To(Equal(c0.C2 + (q.Q12*c0.C1-q.Q23*c0.C2)/v.V2*p.DeltaT))
		Expect(ts.C3[1]).To(Equal(c0.C3 + (q.Q23*c0.C2+q.Q03*in.Put2-q.Q31*c0.C3-q.Q33*c0.C3)/v.V3*p.DeltaT))

		Expect(ts.C1[1]).To(BeNumerically("~", 0.02, 1e-15))
		Expect(ts.C2[1]).To(Equal(0.0))
		Expect(ts.C3[1]).To(BeNumerically("~", 0.01, 1e-15))
	})

	It("uses only previous-step values for all three reactors", func() {
		p := fixture()
		p.Initial = reactor.Initial{C1: 0.7, C2: 0.1, C3: 1.3}
		p.TFinal = 5

		ts, err := reactor.Integrate(p)
		Expect(err).NotTo(HaveOccurred())

		t, c1, c2, c3 := reference(p)
		Expect(ts.Time).To(Equal(t))
		Expect(ts.C1).To(Equal(c1))
		Expect(ts.C2).To(Equal(c2))
		Expect(ts.C3).To(Equal(c3))
	})

	It("is deterministic", func() {
		p := fixture()
		p.TFinal = 9.5
		a, err := reactor.Integrate(p)
		Expect(err).NotTo(HaveOccurred())
		b, err := reactor.Integrate(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("holds a network in equilibrium at its initial values", func() {
		const c = 2.5
		p := fixture()
		p.Inputs = reactor.Inputs{Put1: c, Put2: c}
		p.Initial = reactor.Initial{C1: c, C2: c, C3: c}
		p.TFinal = 10

		ts, err := reactor.Integrate(p)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < ts.Len(); i++ {
			Expect(ts.C1[i]).To(BeNumerically("~", c, reactor.Tolerance))
			Expect(ts.C2[i]).To(BeNumerically("~", c, reactor.Tolerance))
			Expect(ts.C3[i]).To(BeNumerically("~", c, reactor.Tolerance))
		}
	})

	It("approaches the feed-weighted steady state", func() {
		p := fixture()
		p.DeltaT = 0.5
		p.TFinal = 50

		ts, err := reactor.Integrate(p)
		Expect(err).NotTo(HaveOccurred())

		last := ts.Len() - 1
		Expect(ts.C1[last]).To(BeNumerically(">", ts.C1[1]))
		Expect(ts.C3[last]).To(BeNumerically("<", p.Inputs.Put1))
	})

	It("refuses to run past capacity", func() {
		p := fixture()
		p.TFinal = 10.1

		ts, err := reactor.Integrate(p)
		Expect(err).To(MatchError(reactor.ErrPrecondition))
		Expect(ts).To(BeNil())
	})

	It("refuses to run with unbalanced flows", func() {
		p := fixture()
		p.Flows.Q23 = 5

		ts, err := reactor.Integrate(p)
		Expect(err).To(MatchError(reactor.ErrConstraint))
		Expect(ts).To(BeNil())
	})

	It("reports divergence as an unstable integration", func() {
		p := fixture()
		p.Volumes = reactor.Volumes{V1: 1e-300, V2: 1e-300, V3: 1e-300}
		p.Initial = reactor.Initial{C1: 1e300}
		p.TFinal = 10

		_, err := reactor.Integrate(p)
		Expect(err).To(MatchError(dynamo.ErrUnstable))
	})
})

var _ = Describe("Network", func() {
	It("is a three-state, two-input system", func() {
		net := reactor.NewNetwork(fixture())
		Expect(dynamo.CheckDims(net, fixture().Initial.State(), net.Inputs())).To(Succeed())
		Expect(net.Inputs()).To(Equal(dynamo.Control{1.0, 0.5}))
	})
})
