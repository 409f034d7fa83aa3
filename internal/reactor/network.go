package reactor

import "github.com/san-kum/reactorsim/internal/dynamo"

// Network is the mass balance of the three reactors as a dynamo.System.
// State is (c1, c2, c3); control is the feed pair (put1, put2).
type Network struct {
	v Volumes
	q Flows
	u Inputs
}

// NewNetwork captures the volumes, flows and feeds of p. It does not
// validate them.
func NewNetwork(p Params) *Network {
	return &Network{v: p.Volumes, q: p.Flows, u: p.Inputs}
}

func (n *Network) StateDim() int   { return 3 }
func (n *Network) ControlDim() int { return 2 }

// Inputs returns the feed concentrations as a control vector.
func (n *Network) Inputs() dynamo.Control {
	return dynamo.Control{n.u.Put1, n.u.Put2}
}

// Derive returns dc/dt for every reactor. All three rates are computed from
// x alone.
func (n *Network) Derive(x dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	q, v := n.q, n.v
	return dynamo.State{
		(q.Q01*u[0] + q.Q31*x[2] - q.Q12*x[0]) / v.V1,
		(q.Q12*x[0] - q.Q23*x[1]) / v.V2,
		(q.Q23*x[1] + q.Q03*u[1] - q.Q31*x[2] - q.Q33*x[2]) / v.V3,
	}
}
