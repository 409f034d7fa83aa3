// Package reactor models solute transport through a fixed network of three
// well-mixed reactors joined by six directional channels:
//
//	external -> 1 (Q01)    external -> 3 (Q03)
//	1 -> 2 (Q12)           2 -> 3 (Q23)
//	3 -> 1 (Q31)           3 -> external (Q33)
//
// The package holds the numerical core of the module:
//
//   - [Params]: volumes, flows, feed and initial concentrations, time stepping
//   - [ValidateFlows]: conservation-of-flow checks at each node
//   - [Integrate]: explicit Euler integration producing a [TimeSeries]
//   - [ScaleFor]: y-axis bound for rendering a [TimeSeries]
//
// Everything here is pure. Nothing prints, reads files or keeps state between
// calls; prompting, persistence and rendering live in other packages.
package reactor
