// Package sim provides the population simulation engine.
//
// The package defines the model configuration and the fixed-step update
// rule for a community of interacting populations:
//
//   - [Config]: populations, interaction matrix, step, duration and the
//     season, disease and escape toggles
//   - [Community]: growth, coupling and shock terms for one population
//   - [Integrator]: one micro-step, either [Lagged] or [Frozen] coupling
//   - [Advance]: one macro-step of Config.Step micro-steps
//   - [Driver]: owns a run and advances it once per externally clocked tick
//
// # Example
//
//	cfg := sim.DefaultConfig(2)
//	d := sim.NewDriver(sim.NewRand(42))
//	if err := d.Start(cfg); err != nil {
//	    return err
//	}
//	for d.Tick() {
//	}
//	fmt.Println(d.Day(), d.Total())
//
// # Thread Safety
//
// Driver instances are NOT thread-safe. A run belongs to one Driver and its
// ticks must be serialized by the host.
package sim
