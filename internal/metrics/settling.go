package metrics

import "github.com/san-kum/reactorsim/internal/dynamo"

// SettlingRate is the default rate of change, in concentration per unit
// time, below which a run counts as settled.
const SettlingRate = 1e-3

// Settling reports the time after which the state vector moves slower than
// threshold (Euclidean norm per unit time). It is -1 when the last step
// still exceeded it.
type Settling struct {
	name      string
	threshold float64

	prev      dynamo.State
	prevT     float64
	lastT     float64
	violation float64
	samples   int
}

func NewSettling(threshold float64) *Settling {
	return &Settling{name: "settling_time", threshold: threshold}
}

func (s *Settling) Name() string { return s.name }

func (s *Settling) Observe(x dynamo.State, u dynamo.Control, t float64) {
	s.samples++
	if s.prev != nil && t > s.prevT {
		if rate := x.Sub(s.prev).Norm() / (t - s.prevT); rate > s.threshold {
			s.violation = t
		}
	}
	s.prev = x.Clone()
	s.prevT = t
	s.lastT = t
}

func (s *Settling) Value() float64 {
	if s.samples < 2 {
		return 0
	}
	if s.violation == s.lastT && s.violation != 0 {
		return -1
	}
	return s.violation
}

func (s *Settling) Reset() {
	s.prev = nil
	s.prevT = 0
	s.lastT = 0
	s.violation = 0
	s.samples = 0
}
