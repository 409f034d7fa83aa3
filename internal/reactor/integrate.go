package reactor

import (
	"github.com/san-kum/reactorsim/internal/dynamo"
	"github.com/san-kum/reactorsim/internal/integrators"
)

// Integrate solves the network with explicit Euler steps of p.DeltaT and
// returns p.StepCount() samples starting at t = 0. It refuses to run unless
// p.Validate succeeds.
func Integrate(p Params) (*TimeSeries, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.StepCount()
	net := NewNetwork(p)
	integ := integrators.NewEuler()
	u := net.Inputs()
	x := p.Initial.State()
	if err := dynamo.CheckDims(net, x, u); err != nil {
		return nil, err
	}

	ts := newTimeSeries(n)
	t := 0.0
	ts.set(0, t, x)

	for i := 1; i < n; i++ {
		x = integ.Step(net, x, u, t, p.DeltaT)
		t += p.DeltaT
		if !x.IsValid() {
			return nil, &dynamo.SimulationError{Step: i, Time: t, State: x, Wrapped: dynamo.ErrUnstable}
		}
		ts.set(i, t, x)
	}

	return ts, nil
}
