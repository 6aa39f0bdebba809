// Package viz renders batch results in the terminal.
//
// [Plot] draws a histogram with asciigraph, [SummaryPanel] boxes the column
// statistics, and [WatchModel] is a Bubble Tea program that keeps running
// batches and redraws the accumulated histogram.
//
// # Key Bindings
//
//	Space - Pause/Resume batches
//	R     - Drop accumulated results
//	Q     - Quit
package viz
