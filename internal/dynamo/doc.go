// Package dynamo provides the core primitives for integrating systems of
// ordinary differential equations.
//
// The package defines the small set of types the rest of the module builds on:
//
//   - [State]: vector representing system state
//   - [Control]: exogenous inputs held fixed across a step
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: fixed-step numerical stepper
//
// # Example
//
//	net := reactor.NewNetwork(params)
//	integ := integrators.NewEuler()
//	next := integ.Step(net, x, net.Inputs(), t, dt)
//
// Integrators must return a freshly allocated [State]; callers rely on the
// previous state staying untouched so every derivative of a step is computed
// from the same snapshot.
package dynamo
