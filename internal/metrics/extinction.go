package metrics

import "github.com/san-kum/popsim/internal/sim"

// Extinctions counts populations whose amount reached zero or below at any
// observed snapshot. Amounts are not clamped by the engine, so a population
// can go negative and later recover; it still counts once.
type Extinctions struct {
	name    string
	extinct map[int]bool
}

func NewExtinctions() *Extinctions {
	return &Extinctions{name: "extinctions", extinct: make(map[int]bool)}
}

func (e *Extinctions) Name() string { return e.name }

func (e *Extinctions) Observe(s sim.Snapshot) {
	for i, v := range s.Amounts {
		if v <= 0 {
			e.extinct[i] = true
		}
	}
}

func (e *Extinctions) Value() float64 { return float64(len(e.extinct)) }

func (e *Extinctions) Reset() { e.extinct = make(map[int]bool) }
