package reactor

import "github.com/san-kum/reactorsim/internal/dynamo"

// TimeSeries holds one sample per time point for each reactor. All four
// slices have the same length.
type TimeSeries struct {
	Time []float64 `json:"time"`
	C1   []float64 `json:"c1"`
	C2   []float64 `json:"c2"`
	C3   []float64 `json:"c3"`
}

func newTimeSeries(n int) *TimeSeries {
	return &TimeSeries{
		Time: make([]float64, n),
		C1:   make([]float64, n),
		C2:   make([]float64, n),
		C3:   make([]float64, n),
	}
}

func (ts *TimeSeries) set(i int, t float64, x dynamo.State) {
	ts.Time[i] = t
	ts.C1[i] = x[0]
	ts.C2[i] = x[1]
	ts.C3[i] = x[2]
}

func (ts *TimeSeries) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.Time)
}

// Reactors returns the three concentration series in reactor order.
func (ts *TimeSeries) Reactors() [][]float64 {
	return [][]float64{ts.C1, ts.C2, ts.C3}
}

// At returns the state of all reactors at sample i.
func (ts *TimeSeries) At(i int) dynamo.State {
	return dynamo.State{ts.C1[i], ts.C2[i], ts.C3[i]}
}

// Append adds one sample. It is meant for rebuilding a series read back
// from storage.
func (ts *TimeSeries) Append(t, c1, c2, c3 float64) {
	ts.Time = append(ts.Time, t)
	ts.C1 = append(ts.C1, c1)
	ts.C2 = append(ts.C2, c2)
	ts.C3 = append(ts.C3, c3)
}
