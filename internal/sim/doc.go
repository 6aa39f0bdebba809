// Package sim runs batches of independent Monte-Carlo trials.
//
// A batch of N trials is split into one contiguous index range per worker
// (see [Partition]). Every worker owns its random generator and writes only
// the result slots of its own range, so the result slice needs no locking:
//
//	out, err := sim.Run(ctx, 1_000_000, sim.Options{Seed: 42, Seeded: true},
//	    func(rng *rand.Rand) (float64, error) {
//	        return rng.Float64(), nil
//	    })
//
// # Failure
//
// The first failing trial cancels the remaining workers and [Run] returns
// a [*TrialError] with no results. Batches are never returned partially.
//
// # Reproducibility
//
// With Seeded set, worker w draws from prob.NewRNG(Seed, w). For a fixed
// worker count the whole batch is then reproducible.
package sim
