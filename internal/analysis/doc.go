// Package analysis provides scalar summaries of biomass trajectories.
//
// The package reduces a trajectory to the quantities the rest of the
// module reports on:
//
//   - [Peak]: maximum value over the horizon (interior or final)
//   - [TimeToThreshold]: first reported time at or above a level
//   - [Summarize]: five-number summary plus mean/stddev of a
//     distribution, the shape a box plot consumes
//   - [Sweep]: peak response across one parameter axis
//
// All functions here are pure; they do no I/O and hold no state.
package analysis
