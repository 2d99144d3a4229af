package metrics

import (
	"math"

	"github.com/san-kum/popsim/internal/sim"
)

// FinalTotal reports the total amount of the last observed snapshot.
type FinalTotal struct {
	name  string
	total float64
}

func NewFinalTotal() *FinalTotal {
	return &FinalTotal{name: "final_total"}
}

func (f *FinalTotal) Name() string { return f.name }

func (f *FinalTotal) Observe(s sim.Snapshot) { f.total = s.Total() }

func (f *FinalTotal) Value() float64 { return f.total }

func (f *FinalTotal) Reset() { f.total = 0 }

// PeakTotal reports the largest total amount seen during the run.
type PeakTotal struct {
	name    string
	peak    float64
	samples int
}

func NewPeakTotal() *PeakTotal {
	return &PeakTotal{name: "peak_total"}
}

func (p *PeakTotal) Name() string { return p.name }

func (p *PeakTotal) Observe(s sim.Snapshot) {
	t := s.Total()
	if p.samples == 0 || t > p.peak {
		p.peak = t
	}
	p.samples++
}

func (p *PeakTotal) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.peak
}

func (p *PeakTotal) Reset() {
	p.peak = 0
	p.samples = 0
}

// Dominance reports the index of the largest population in the last
// observed snapshot, or -1 before any observation.
type Dominance struct {
	name  string
	index int
}

func NewDominance() *Dominance {
	return &Dominance{name: "dominant", index: -1}
}

func (d *Dominance) Name() string { return d.name }

func (d *Dominance) Observe(s sim.Snapshot) {
	best := math.Inf(-1)
	d.index = -1
	for i, v := range s.Amounts {
		if v > best {
			best = v
			d.index = i
		}
	}
}

func (d *Dominance) Value() float64 { return float64(d.index) }

func (d *Dominance) Reset() { d.index = -1 }
