package sim

import (
	"math"
	"math/rand/v2"
)

// State holds one amount per population.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) Sum() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum
}

// IsValid reports whether every amount is finite. The engine never uses it
// to guard arithmetic; it exists for reporting.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Snapshot records all population amounts at a simulated day. Treat it as
// immutable once created.
type Snapshot struct {
	Day     int   `json:"day"`
	Amounts State `json:"amounts"`
}

func (s Snapshot) Total() float64 { return s.Amounts.Sum() }

func (s Snapshot) Clone() Snapshot {
	return Snapshot{Day: s.Day, Amounts: s.Amounts.Clone()}
}

type Population struct {
	Amount float64 `json:"amount" yaml:"amount"`
	Growth float64 `json:"growth" yaml:"growth"`
}

// Matrix holds interaction coefficients: m[i][j] is the effect of
// population j's density on population i's growth.
type Matrix [][]float64

// NewMatrix returns an n×n matrix with off-diagonal entries set to off and
// a zero diagonal.
func NewMatrix(n int, off float64) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			if i != j {
				m[i][j] = off
			}
		}
	}
	return m
}

func (m Matrix) Clone() Matrix {
	c := make(Matrix, len(m))
	for i, row := range m {
		c[i] = make([]float64, len(row))
		copy(c[i], row)
	}
	return c
}

// IsSquare reports whether m is n×n.
func (m Matrix) IsSquare(n int) bool {
	if len(m) != n {
		return false
	}
	for _, row := range m {
		if len(row) != n {
			return false
		}
	}
	return true
}

// Rand is the source of uniform draws in [0,1) used by escape and disease.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a PCG-backed generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
