package experiment

import (
	"time"

	"github.com/san-kum/popsim/internal/sim"
)

type Result struct {
	Name      string
	Seed      uint64
	Config    *sim.Config
	Snapshots []sim.Snapshot
	Metrics   map[string]float64
	Ticks     int
	Elapsed   time.Duration
}

// Final returns the last snapshot of the run.
func (r *Result) Final() sim.Snapshot {
	if len(r.Snapshots) == 0 {
		return sim.Snapshot{}
	}
	return r.Snapshots[len(r.Snapshots)-1]
}

// Series returns the amounts of population i over time.
func (r *Result) Series(i int) []float64 {
	out := make([]float64, len(r.Snapshots))
	for k, s := range r.Snapshots {
		if i < len(s.Amounts) {
			out[k] = s.Amounts[i]
		}
	}
	return out
}

func (r *Result) Totals() []float64 {
	out := make([]float64, len(r.Snapshots))
	for k, s := range r.Snapshots {
		out[k] = s.Total()
	}
	return out
}

func (r *Result) Days() []int {
	out := make([]int, len(r.Snapshots))
	for k, s := range r.Snapshots {
		out[k] = s.Day
	}
	return out
}

// Populations is the number of populations in the run.
func (r *Result) Populations() int {
	if len(r.Snapshots) == 0 {
		return 0
	}
	return len(r.Snapshots[0].Amounts)
}
