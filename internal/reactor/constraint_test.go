package reactor_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/reactorsim/internal/reactor"
)

func violatedCheck(err error) reactor.Check {
	var cv *reactor.ConstraintViolation
	if errors.As(err, &cv) {
		return cv.Check
	}
	return 0
}

var _ = Describe("ValidateFlows", func() {
	It("accepts flows that balance at every node", func() {
		Expect(reactor.ValidateFlows(balancedFlows())).To(Succeed())
	})

	It("accepts other balanced networks", func() {
		f := reactor.Flows{Q01: 5, Q03: 5, Q12: 8, Q23: 8, Q31: 3, Q33: 10}
		Expect(reactor.ValidateFlows(f)).To(Succeed())
	})

	DescribeTable("reports the first violated balance when one flow is perturbed",
		func(mutate func(*reactor.Flows), want reactor.Check) {
			f := balancedFlows()
			mutate(&f)

			err := reactor.ValidateFlows(f)
			Expect(err).To(MatchError(reactor.ErrConstraint))
			Expect(violatedCheck(err)).To(Equal(want))
		},
		Entry("Q01", func(f *reactor.Flows) { f.Q01 += 0.01 }, reactor.CheckNode1),
		Entry("Q31", func(f *reactor.Flows) { f.Q31 -= 0.5 }, reactor.CheckNode1),
		Entry("Q12", func(f *reactor.Flows) { f.Q12 += 1 }, reactor.CheckNode1),
		Entry("Q23", func(f *reactor.Flows) { f.Q23 += 0.01 }, reactor.CheckNode2),
		Entry("Q33", func(f *reactor.Flows) { f.Q33 += 0.01 }, reactor.CheckNode3Primary),
		Entry("Q03", func(f *reactor.Flows) { f.Q03 += 0.01 }, reactor.CheckNode3Secondary),
	)

	It("tolerates sub-tolerance noise on the approximate balances", func() {
		f := balancedFlows()
		f.Q01 += 1e-8
		Expect(reactor.ValidateFlows(f)).To(Succeed())
	})

	It("requires Q23 to equal Q12 exactly", func() {
		f := balancedFlows()
		f.Q12 += 1e-8
		f.Q01 += 1e-8
		Expect(violatedCheck(reactor.ValidateFlows(f))).To(Equal(reactor.CheckNode2))
	})

	It("checks the secondary node 3 balance on its own", func() {
		f := balancedFlows()
		f.Q03 = 3
		err := reactor.ValidateFlows(f)
		Expect(violatedCheck(err)).To(Equal(reactor.CheckNode3Secondary))

		var cv *reactor.ConstraintViolation
		Expect(errors.As(err, &cv)).To(BeTrue())
		Expect(cv.Residual).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("is stateless between calls", func() {
		bad := balancedFlows()
		bad.Q23 = 1
		Expect(reactor.ValidateFlows(bad)).NotTo(Succeed())
		Expect(reactor.ValidateFlows(balancedFlows())).To(Succeed())
	})

	It("rejects NaN flows as unbalanced", func() {
		f := balancedFlows()
		f.Q31 = math.NaN()
		Expect(reactor.ValidateFlows(f)).To(MatchError(reactor.ErrConstraint))
	})
})

var _ = Describe("Check", func() {
	DescribeTable("describes itself for re-prompting",
		func(c reactor.Check, node int, channels []string) {
			Expect(c.Node()).To(Equal(node))
			Expect(c.Channels()).To(Equal(channels))
			Expect(c.Equation()).NotTo(BeEmpty())
			Expect(c.String()).To(ContainSubstring("node"))
		},
		Entry("node 1", reactor.CheckNode1, 1, []string{"Q01", "Q31", "Q12"}),
		Entry("node 2", reactor.CheckNode2, 2, []string{"Q23"}),
		Entry("node 3", reactor.CheckNode3Primary, 3, []string{"Q33"}),
		Entry("node 3 secondary", reactor.CheckNode3Secondary, 3, []string{"Q03"}),
	)
})
