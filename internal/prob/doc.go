// Package prob provides the random-number primitives of the simulator.
//
// The package covers three concerns:
//
//   - [Density]: piecewise-linear probability density over an energy axis
//   - [Normalize]: trapezoidal rescaling so that the density integrates to 1
//   - [Sampler]: inverse-CDF draws from a normalized density
//
// # Example
//
//	d, _ := prob.Normalize(prob.Density{E: e, P: p})
//	s, _ := prob.NewSampler(d)
//	rng := prob.NewRNG(42, 0)
//	amp := s.Sample(rng)
//
// # Thread Safety
//
// A [Sampler] is read-only after construction and may be shared by any
// number of goroutines. Generators returned by [NewRNG] are NOT safe for
// concurrent use; every worker owns its own.
package prob
