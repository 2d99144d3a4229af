package sim

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultAmount      = 100.0
	DefaultGrowth      = 0.01
	DefaultCoefficient = 0.0001
	DefaultResistance  = 1.0
	DefaultStep        = 1
	DefaultDuration    = 1000
	DefaultEscape      = 50.0
	DefaultPopulations = 2
)

// Coupling selects the order in which a micro-step reads population values
// for the interaction sum.
type Coupling int

const (
	// CouplingLagged updates populations in index order and lets later
	// populations see values already written in the same micro-step.
	CouplingLagged Coupling = iota
	// CouplingFrozen reads every interaction term from the values fixed at
	// the start of the micro-step.
	CouplingFrozen
)

func (c Coupling) String() string {
	switch c {
	case CouplingLagged:
		return "lagged"
	case CouplingFrozen:
		return "frozen"
	default:
		return fmt.Sprintf("coupling(%d)", int(c))
	}
}

func ParseCoupling(s string) (Coupling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lagged", "a", "gauss-seidel":
		return CouplingLagged, nil
	case "frozen", "b", "jacobi":
		return CouplingFrozen, nil
	}
	return 0, rangeErr("coupling", "unknown coupling %q (want lagged or frozen)", s)
}

func (c Coupling) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Coupling) UnmarshalText(b []byte) error {
	v, err := ParseCoupling(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Season scales growth rates by calendar position when enabled.
type Season struct {
	Enabled     bool    `json:"enabled"`
	Coefficient float64 `json:"coefficient"`
}

// Disease fires a multiplicative shock on a population with probability
// SpawnRate per micro-step. A zero SpawnRate disables it.
type Disease struct {
	SpawnRate  float64   `json:"spawn_rate"`
	Resistance []float64 `json:"resistance"`
}

// Escape nullifies a negative interaction term with probability
// Probability percent when enabled.
type Escape struct {
	Enabled     bool    `json:"enabled"`
	Probability float64 `json:"probability"`
}

type Config struct {
	Populations []Population `json:"populations"`
	Coeffs      Matrix       `json:"coeffs"`
	Step        int          `json:"step"`
	Duration    int          `json:"duration"`
	Coupling    Coupling     `json:"coupling"`
	Season      Season       `json:"season"`
	Disease     Disease      `json:"disease"`
	Escape      Escape       `json:"escape"`
}

type Option func(*Config)

func WithCoupling(c Coupling) Option {
	return func(cfg *Config) { cfg.Coupling = c }
}

func WithSeason(coefficient float64) Option {
	return func(cfg *Config) { cfg.Season = Season{Enabled: true, Coefficient: coefficient} }
}

func WithDisease(spawnRate float64, resistance []float64) Option {
	return func(cfg *Config) {
		cfg.Disease = Disease{SpawnRate: spawnRate, Resistance: append([]float64(nil), resistance...)}
	}
}

func WithEscape(probability float64) Option {
	return func(cfg *Config) { cfg.Escape = Escape{Enabled: true, Probability: probability} }
}

// Configure builds and validates a Config for n populations.
func Configure(n int, populations []Population, coeffs Matrix, step, duration int, opts ...Option) (*Config, error) {
	if n < 1 {
		return nil, rangeErr("populations", "count must be at least 1, got %d", n)
	}
	cfg := &Config{
		Populations: append([]Population(nil), populations...),
		Coeffs:      coeffs.Clone(),
		Step:        step,
		Duration:    duration,
		Season:      Season{Coefficient: 1},
		Escape:      Escape{Probability: DefaultEscape},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Disease.Resistance == nil {
		cfg.Disease.Resistance = defaultResistance(n)
	}
	if cfg.N() != n {
		return nil, shapeErr("populations", "got %d populations, want %d", cfg.N(), n)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the stock configuration for n populations.
func DefaultConfig(n int) *Config {
	cfg := &Config{
		Step:     DefaultStep,
		Duration: DefaultDuration,
		Coupling: CouplingLagged,
		Season:   Season{Coefficient: 1},
		Escape:   Escape{Probability: DefaultEscape},
	}
	cfg.resetPopulations(n)
	return cfg
}

func defaultResistance(n int) []float64 {
	r := make([]float64, n)
	for i := range r {
		r[i] = DefaultResistance
	}
	return r
}

func (c *Config) resetPopulations(n int) {
	c.Populations = make([]Population, n)
	for i := range c.Populations {
		c.Populations[i] = Population{Amount: DefaultAmount, Growth: DefaultGrowth}
	}
	c.Coeffs = NewMatrix(n, DefaultCoefficient)
	c.Disease.Resistance = defaultResistance(n)
}

// SetPopulationCount changes the number of populations. Any change resets
// populations, the interaction matrix and the resistance vector to their
// defaults; setting the current count is a no-op.
func (c *Config) SetPopulationCount(n int) error {
	if n < 1 {
		return rangeErr("populations", "count must be at least 1, got %d", n)
	}
	if n == c.N() {
		return nil
	}
	c.resetPopulations(n)
	return nil
}

func (c *Config) N() int { return len(c.Populations) }

func (c *Config) Clone() *Config {
	cp := *c
	cp.Populations = append([]Population(nil), c.Populations...)
	cp.Coeffs = c.Coeffs.Clone()
	if c.Disease.Resistance != nil {
		cp.Disease.Resistance = append([]float64(nil), c.Disease.Resistance...)
	}
	return &cp
}

// InitialSnapshot is the day-0 snapshot built from the population amounts.
func (c *Config) InitialSnapshot() Snapshot {
	amounts := make(State, c.N())
	for i, p := range c.Populations {
		amounts[i] = p.Amount
	}
	return Snapshot{Day: 0, Amounts: amounts}
}

func (c *Config) Validate() error {
	n := c.N()
	if n < 1 {
		return rangeErr("populations", "count must be at least 1, got %d", n)
	}
	if !c.Coeffs.IsSquare(n) {
		return shapeErr("coeffs", "matrix must be %dx%d", n, n)
	}
	if r := len(c.Disease.Resistance); r != n && !(r == 0 && c.Disease.SpawnRate == 0) {
		return shapeErr("disease.resistance", "got %d entries, want %d", r, n)
	}
	if c.Step < 1 {
		return rangeErr("step", "must be at least 1, got %d", c.Step)
	}
	if c.Duration < 0 {
		return rangeErr("duration", "must not be negative, got %d", c.Duration)
	}
	for i, p := range c.Populations {
		if !finite(p.Amount) || p.Amount < 0 {
			return rangeErr(fmt.Sprintf("populations[%d].amount", i), "must be a finite value >= 0, got %v", p.Amount)
		}
		if !finite(p.Growth) {
			return rangeErr(fmt.Sprintf("populations[%d].growth", i), "must be finite, got %v", p.Growth)
		}
	}
	for i, row := range c.Coeffs {
		for j, v := range row {
			if !finite(v) {
				return rangeErr(fmt.Sprintf("coeffs[%d][%d]", i, j), "must be finite, got %v", v)
			}
		}
	}
	if c.Season.Enabled && !(c.Season.Coefficient >= 1) {
		return rangeErr("season.coefficient", "must be >= 1, got %v", c.Season.Coefficient)
	}
	if c.Escape.Probability < 0 || c.Escape.Probability > 100 || math.IsNaN(c.Escape.Probability) {
		return rangeErr("escape.probability", "must be in [0,100], got %v", c.Escape.Probability)
	}
	if c.Disease.SpawnRate < 0 || c.Disease.SpawnRate > 1 || math.IsNaN(c.Disease.SpawnRate) {
		return rangeErr("disease.spawn_rate", "must be in [0,1], got %v", c.Disease.SpawnRate)
	}
	for i, r := range c.Disease.Resistance {
		if !finite(r) || r <= 0 {
			return rangeErr(fmt.Sprintf("disease.resistance[%d]", i), "must be > 0, got %v", r)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
