// Package viz provides terminal-based visualization for simulation runs.
//
// [Plot] and [PlotMany] render saved expectation-value series as asciigraph
// line charts for the plot and compare commands. [Run] starts an
// interactive Bubble Tea view that evolves a system's master equation in
// real time next to a live stats panel.
//
// # Key Bindings
//
//	Space - Pause/Resume evolution
//	R     - Reset to the initial state
//	Tab   - Cycle the charted observable
//	+/-   - Change simulation speed
//	Q     - Quit
package viz
