package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/popsim/internal/sim"
)

const DefaultSeed = 1

// Config is the on-disk form of a simulation setup.
type Config struct {
	Name        string           `yaml:"name,omitempty"`
	Description string           `yaml:"description,omitempty"`
	Populations []sim.Population `yaml:"populations"`
	Coeffs      [][]float64      `yaml:"coeffs"`
	Step        int              `yaml:"step"`
	Duration    int              `yaml:"duration"`
	Seed        uint64           `yaml:"seed"`
	Coupling    string           `yaml:"coupling"`
	Season      SeasonConfig     `yaml:"season"`
	Disease     DiseaseConfig    `yaml:"disease"`
	Escape      EscapeConfig     `yaml:"escape"`
}

type SeasonConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Coefficient float64 `yaml:"coefficient"`
}

type DiseaseConfig struct {
	SpawnRate  float64   `yaml:"spawn_rate"`
	Resistance []float64 `yaml:"resistance,omitempty"`
}

type EscapeConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Probability float64 `yaml:"probability"`
}

func base() *Config {
	return &Config{
		Step:     sim.DefaultStep,
		Duration: sim.DefaultDuration,
		Seed:     DefaultSeed,
		Coupling: sim.CouplingLagged.String(),
		Season:   SeasonConfig{Coefficient: 1},
		Escape:   EscapeConfig{Probability: sim.DefaultEscape},
	}
}

func DefaultConfig() *Config {
	return FromSim(sim.DefaultConfig(sim.DefaultPopulations), DefaultSeed)
}

// FromSim converts an engine config into its file form.
func FromSim(s *sim.Config, seed uint64) *Config {
	c := base()
	c.Populations = append([]sim.Population(nil), s.Populations...)
	c.Coeffs = s.Coeffs.Clone()
	c.Step = s.Step
	c.Duration = s.Duration
	c.Seed = seed
	c.Coupling = s.Coupling.String()
	c.Season = SeasonConfig{Enabled: s.Season.Enabled, Coefficient: s.Season.Coefficient}
	c.Disease = DiseaseConfig{
		SpawnRate:  s.Disease.SpawnRate,
		Resistance: append([]float64(nil), s.Disease.Resistance...),
	}
	c.Escape = EscapeConfig{Enabled: s.Escape.Enabled, Probability: s.Escape.Probability}
	return c
}

// ToSim builds a validated engine config. A missing interaction matrix
// becomes the default matrix for the population count.
func (c *Config) ToSim() (*sim.Config, error) {
	coupling, err := sim.ParseCoupling(c.Coupling)
	if err != nil {
		return nil, err
	}
	n := len(c.Populations)
	coeffs := sim.Matrix(c.Coeffs)
	if len(coeffs) == 0 {
		coeffs = sim.NewMatrix(n, sim.DefaultCoefficient)
	}

	opts := []sim.Option{sim.WithCoupling(coupling)}
	if c.Season.Enabled {
		opts = append(opts, sim.WithSeason(c.Season.Coefficient))
	}
	if c.Disease.SpawnRate != 0 || len(c.Disease.Resistance) > 0 {
		opts = append(opts, sim.WithDisease(c.Disease.SpawnRate, c.Disease.Resistance))
	}
	if c.Escape.Enabled {
		opts = append(opts, sim.WithEscape(c.Escape.Probability))
	}

	cfg, err := sim.Configure(n, c.Populations, coeffs, c.Step, c.Duration, opts...)
	if err != nil {
		return nil, err
	}
	if !c.Escape.Enabled {
		cfg.Escape.Probability = c.Escape.Probability
	}
	if !c.Season.Enabled {
		cfg.Season.Coefficient = c.Season.Coefficient
	}
	return cfg, nil
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Populations = append([]sim.Population(nil), c.Populations...)
	cp.Coeffs = sim.Matrix(c.Coeffs).Clone()
	cp.Disease.Resistance = append([]float64(nil), c.Disease.Resistance...)
	return &cp
}

// Resize changes the population count, resetting populations, matrix and
// resistance to defaults when the count differs.
func (c *Config) Resize(n int) error {
	s := sim.DefaultConfig(len(c.Populations))
	s.Populations = c.Populations
	s.Coeffs = c.Coeffs
	if err := s.SetPopulationCount(n); err != nil {
		return err
	}
	c.Populations = s.Populations
	c.Coeffs = s.Coeffs
	if len(c.Disease.Resistance) != n {
		c.Disease.Resistance = s.Disease.Resistance
	}
	return nil
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, nil)
}

// LoadOnto reads a YAML file over a copy of b, so fields absent from the
// file keep b's values. When the file changes the population count, a
// matrix or resistance vector the file does not set is reset to defaults.
func LoadOnto(path string, b *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, b)
}

// Parse decodes YAML over a copy of b, or over the defaults when b is nil.
func Parse(data []byte, b *Config) (*Config, error) {
	cfg := base()
	if b != nil {
		cfg = b.Clone()
	}
	before := len(cfg.Populations)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var keys map[string]yaml.Node
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	n := len(cfg.Populations)
	if n == 0 {
		cfg.Populations = sim.DefaultConfig(sim.DefaultPopulations).Populations
		n = sim.DefaultPopulations
	}
	if _, ok := keys["coeffs"]; !ok && (n != before || len(cfg.Coeffs) == 0) {
		cfg.Coeffs = sim.NewMatrix(n, sim.DefaultCoefficient)
	}
	if r := len(cfg.Disease.Resistance); r != n && !hasKey(keys["disease"], "resistance") {
		cfg.Disease.Resistance = nil
	}
	return cfg, nil
}

// hasKey reports whether the mapping node sets key.
func hasKey(node yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
