package metrics

import "github.com/san-kum/popsim/internal/sim"

// Metric accumulates a scalar over the snapshots of one run.
type Metric interface {
	Name() string
	Observe(s sim.Snapshot)
	Value() float64
	Reset()
}
