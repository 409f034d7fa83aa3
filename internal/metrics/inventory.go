package metrics

import (
	"github.com/san-kum/reactorsim/internal/dynamo"
	"github.com/san-kum/reactorsim/internal/reactor"
)

// Inventory is the solute held in the network at the last sample,
// sum of V_i * c_i.
type Inventory struct {
	name    string
	volumes reactor.Volumes
	last    float64
}

func NewInventory(v reactor.Volumes) *Inventory {
	return &Inventory{name: "inventory", volumes: v}
}

func (m *Inventory) Name() string { return m.name }

func (m *Inventory) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) < 3 {
		return
	}
	m.last = m.volumes.V1*x[0] + m.volumes.V2*x[1] + m.volumes.V3*x[2]
}

func (m *Inventory) Value() float64 { return m.last }

func (m *Inventory) Reset() { m.last = 0 }
