// Package viz provides the terminal front end for population runs.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view that ticks a [sim.Driver] once per frame
//   - preset picker with editable run settings ([RunInteractive])
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Start a new run / stop the current one
//	R     - Restart from the initial populations
//	+/-   - Change the population count for the next run
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
