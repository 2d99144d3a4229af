// Package analysis provides post-run analysis of population trajectories.
//
//   - [DominantPeriod]: cycle length of a population series via FFT
//   - [PhasePortrait]: one population plotted against another
//   - [Sweep]: parameter sweep recording the long-run values of a population
//
// # Cycle Detection
//
// Predator-prey couplings produce oscillating populations. The dominant
// period of a series sampled every step days is:
//
//	period := analysis.DominantPeriod(result.Series(0), cfg.Step)
//	if period > 0 {
//	    // oscillates with that many days per cycle
//	}
package analysis
