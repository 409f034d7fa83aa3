package reactor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/reactorsim/internal/reactor"
)

var _ = Describe("ScaleFor", func() {
	It("is 1.1 times the largest concentration across all reactors", func() {
		ts := &reactor.TimeSeries{
			Time: []float64{0, 1, 2},
			C1:   []float64{0.1, 0.4, 0.2},
			C2:   []float64{0.3, 0.9, 0.5},
			C3:   []float64{0.0, 0.6, 0.7},
		}
		top := 0.9
		Expect(reactor.ScaleFor(ts)).To(Equal(top * reactor.Headroom))
		Expect(reactor.ScaleFor(ts)).To(BeNumerically("~", 0.99, 1e-15))
	})

	It("never falls below the maximum of any series", func() {
		p := fixture()
		p.TFinal = 8
		ts, err := reactor.Integrate(p)
		Expect(err).NotTo(HaveOccurred())

		scale := reactor.ScaleFor(ts)
		top := 0.0
		for _, c := range ts.Reactors() {
			Expect(scale).To(BeNumerically(">=", reactor.Max(c)))
			if m := reactor.Max(c); m > top {
				top = m
			}
		}
		Expect(scale).To(Equal(1.1 * top))
	})

	It("is zero for an all-zero series", func() {
		ts := &reactor.TimeSeries{
			Time: []float64{0, 1},
			C1:   []float64{0, 0},
			C2:   []float64{0, 0},
			C3:   []float64{0, 0},
		}
		Expect(reactor.ScaleFor(ts)).To(Equal(0.0))
	})

	It("is zero for an empty or nil series", func() {
		Expect(reactor.ScaleFor(&reactor.TimeSeries{})).To(Equal(0.0))
		Expect(reactor.ScaleFor(nil)).To(Equal(0.0))
	})
})

var _ = Describe("Max and Min", func() {
	DescribeTable("scan the whole slice",
		func(data []float64, max, min float64) {
			Expect(reactor.Max(data)).To(Equal(max))
			Expect(reactor.Min(data)).To(Equal(min))
		},
		Entry("single", []float64{3}, 3.0, 3.0),
		Entry("extremes at the ends", []float64{-1, 0, 2}, 2.0, -1.0),
		Entry("extremes in the middle", []float64{0.5, 7, -4, 1}, 7.0, -4.0),
		Entry("empty", []float64{}, 0.0, 0.0),
	)
})
