package metrics

import (
	"math"

	"github.com/san-kum/popsim/internal/sim"
)

// Boundedness is the fraction of snapshots in which every amount is finite
// and its magnitude stays below the threshold.
type Boundedness struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewBoundedness(threshold float64) *Boundedness {
	return &Boundedness{
		name:      "boundedness",
		threshold: threshold,
	}
}

func (b *Boundedness) Name() string {
	return b.name
}

func (b *Boundedness) Observe(s sim.Snapshot) {
	b.samples++
	for _, val := range s.Amounts {
		if math.IsNaN(val) || math.Abs(val) > b.threshold {
			b.violations++
			break
		}
	}
}

func (b *Boundedness) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Boundedness) Reset() {
	b.violations = 0
	b.samples = 0
}
