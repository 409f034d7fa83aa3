package reactor_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/reactorsim/internal/reactor"
)

var _ = Describe("Params", func() {
	Describe("StepCount", func() {
		DescribeTable("derives the sample count from TFinal and DeltaT",
			func(tFinal, dt float64, want int) {
				p := fixture()
				p.TFinal, p.DeltaT = tFinal, dt
				Expect(p.StepCount()).To(Equal(want))
			},
			Entry("exact ratio", 1.0, 0.1, 10),
			Entry("ratio just under an integer from rounding", 0.3, 0.1, 3),
			Entry("fractional ratio rounds up", 1.0, 0.3, 4),
			Entry("capacity", 10.0, 0.1, 100),
			Entry("one past capacity", 10.1, 0.1, 101),
			Entry("single sample", 0.5, 1.0, 1),
			Entry("zero step", 1.0, 0.0, 0),
		)
	})

	Describe("Validate", func() {
		It("accepts the fixture", func() {
			Expect(fixture().Validate()).To(Succeed())
		})

		It("accepts exactly MaxSamples samples", func() {
			p := fixture()
			p.TFinal, p.DeltaT = 100, 1
			Expect(p.StepCount()).To(Equal(reactor.MaxSamples))
			Expect(p.Validate()).To(Succeed())
		})

		It("rejects a step count of MaxSamples+1 as a precondition", func() {
			p := fixture()
			p.TFinal, p.DeltaT = 101, 1

			err := p.Validate()
			Expect(err).To(MatchError(reactor.ErrPrecondition))

			var pe *reactor.PreconditionError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Field).To(Equal("step_count"))
			Expect(pe.Value).To(Equal(101.0))
		})

		DescribeTable("rejects non-positive inputs before checking balances",
			func(mutate func(*reactor.Params), field string) {
				p := fixture()
				mutate(&p)

				err := p.Validate()
				Expect(err).To(MatchError(reactor.ErrPrecondition))
				Expect(err).NotTo(MatchError(reactor.ErrConstraint))

				var pe *reactor.PreconditionError
				Expect(errors.As(err, &pe)).To(BeTrue())
				Expect(pe.Field).To(Equal(field))
			},
			Entry("zero volume", func(p *reactor.Params) { p.Volumes.V2 = 0 }, "v2"),
			Entry("negative flow", func(p *reactor.Params) { p.Flows.Q12 = -6 }, "Q12"),
			Entry("zero flow", func(p *reactor.Params) { p.Flows.Q03 = 0 }, "Q03"),
			Entry("zero feed", func(p *reactor.Params) { p.Inputs.Put1 = 0 }, "put1"),
			Entry("negative initial concentration", func(p *reactor.Params) { p.Initial.C3 = -1 }, "c3"),
			Entry("zero time step", func(p *reactor.Params) { p.DeltaT = 0 }, "delta_t"),
			Entry("negative final time", func(p *reactor.Params) { p.TFinal = -1 }, "t_final"),
		)

		It("reports unbalanced flows as a constraint violation", func() {
			p := fixture()
			p.Flows.Q33 = 5
			err := p.Validate()
			Expect(err).To(MatchError(reactor.ErrConstraint))
			Expect(violatedCheck(err)).To(Equal(reactor.CheckNode3Primary))
		})
	})

	Describe("Flows.CheckPositive", func() {
		It("names the offending channel", func() {
			f := balancedFlows()
			f.Q31 = 0
			err := f.CheckPositive()
			Expect(err).To(MatchError(ContainSubstring("Q31")))
		})
	})
})
