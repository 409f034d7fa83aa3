package integrators

import "github.com/san-kum/reactorsim/internal/dynamo"

// Euler is the explicit forward Euler stepper. Each call evaluates the
// derivative once at the start of the step and returns a new state; x is
// never written.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
