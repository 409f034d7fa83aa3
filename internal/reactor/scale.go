package reactor

// Headroom is the factor applied to the largest concentration to get the
// top of the y axis.
const Headroom = 1.1

// Max returns the largest value in data, or 0 for an empty slice.
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := data[0]
	for _, v := range data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Min returns the smallest value in data, or 0 for an empty slice.
func Min(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := data[0]
	for _, v := range data[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// ScaleFor is the y-axis upper bound for plotting ts: the largest
// concentration in any reactor times Headroom. An all-zero or empty series
// gives 0.
func ScaleFor(ts *TimeSeries) float64 {
	if ts.Len() == 0 {
		return 0
	}
	top := Max(ts.C1)
	if m := Max(ts.C2); m > top {
		top = m
	}
	if m := Max(ts.C3); m > top {
		top = m
	}
	return top * Headroom
}
