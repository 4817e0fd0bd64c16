// Package sim provides the core primitives for integrating ordinary
// differential equations over an explicit grid of output times.
//
// The package defines the fundamental types shared by the rest of the
// module:
//
//   - [State]: vector representing system state
//   - [Dynamics]: interface for ODE right-hand sides (dX/dt = f(t, X))
//   - [Integrator]: numerical stepper interface
//   - [Metric]: per-run scalar summaries observed along the trajectory
//   - [Simulator]: drives a Dynamics across requested output times
//
// Unlike a fixed dt/duration loop, [Simulator.Run] takes the exact
// sequence of times the caller wants reported and subdivides each
// interval internally for accuracy. Output rows therefore always align
// with the requested grid, which keeps summary statistics comparable
// across runs that share a grid.
//
// # Example
//
//	stand := forest.New(forest.DefaultParams())
//	integ := integrators.NewRK4()
//	s := sim.New(stand, integ)
//	res, err := s.Run(ctx, sim.State{10}, sim.Grid(1, 300), sim.DefaultConfig())
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel evaluation of
// many parameter sets, give each goroutine its own Simulator (see
// package sobol).
package sim
