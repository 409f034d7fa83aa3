// Package metrics summarises a concentration history into named numbers
// stored alongside each run.
package metrics

import (
	"github.com/san-kum/reactorsim/internal/dynamo"
	"github.com/san-kum/reactorsim/internal/reactor"
)

// Metric observes every sample of a run in time order.
type Metric interface {
	Name() string
	Observe(x dynamo.State, u dynamo.Control, t float64)
	Value() float64
	Reset()
}

// Default is the metric set recorded for every run of p.
func Default(p reactor.Params) []Metric {
	return []Metric{
		NewPeak(0), NewPeak(1), NewPeak(2),
		NewInventory(p.Volumes),
		NewSettling(SettlingRate),
	}
}

// Evaluate resets ms, feeds them every sample of ts and returns their
// values by name.
func Evaluate(ts *reactor.TimeSeries, u dynamo.Control, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for i := 0; i < ts.Len(); i++ {
		x := ts.At(i)
		for _, m := range ms {
			m.Observe(x, u, ts.Time[i])
		}
	}

	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
