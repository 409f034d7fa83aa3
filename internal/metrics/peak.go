package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/reactorsim/internal/dynamo"
)

// Peak is the largest concentration seen in one reactor.
type Peak struct {
	name    string
	reactor int
	max     float64
}

// NewPeak tracks reactor r, counted from 0.
func NewPeak(r int) *Peak {
	p := &Peak{name: fmt.Sprintf("peak_c%d", r+1), reactor: r}
	p.Reset()
	return p
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if p.reactor < len(x) && x[p.reactor] > p.max {
		p.max = x[p.reactor]
	}
}

func (p *Peak) Value() float64 {
	if math.IsInf(p.max, -1) {
		return 0
	}
	return p.max
}

func (p *Peak) Reset() { p.max = math.Inf(-1) }
