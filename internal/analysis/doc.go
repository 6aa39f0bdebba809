// Package analysis provides post-processing for batches of trial outcomes.
//
// The package includes:
//
//   - [Summarize]: count, mean, standard deviation and range of a column
//   - [NewHistogram]: fixed-width binning, optionally normalized to a density
//   - [Histogram.SplitAt]: how much of a histogram lies left or right of a border
//
// # Example
//
//	h, _ := analysis.NewHistogram(roll.Integrals(outcomes), 1001, true)
//	left, right := h.SplitAt(12.5)
package analysis
