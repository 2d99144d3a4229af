package config

import (
	"sort"

	"github.com/san-kum/popsim/internal/sim"
)

var Presets = newPresets()

func predatorPrey(desc string) *Config {
	c := base()
	c.Description = desc
	c.Populations = []sim.Population{{Amount: 1000, Growth: 0.04}, {Amount: 40, Growth: -0.03}}
	c.Coeffs = [][]float64{{0, -0.0008}, {0.00006, 0}}
	c.Duration = 2000
	return c
}

func newPresets() map[string]*Config {
	def := DefaultConfig()
	def.Description = "two mildly cooperating populations"

	pp := predatorPrey("prey grows alone, predator starves without prey")

	comp := base()
	comp.Description = "three species crowding each other out"
	comp.Populations = []sim.Population{{Amount: 300, Growth: 0.02}, {Amount: 250, Growth: 0.025}, {Amount: 200, Growth: 0.03}}
	comp.Coeffs = [][]float64{{0, -0.00004, -0.00003}, {-0.00005, 0, -0.00004}, {-0.00006, -0.00005, 0}}
	comp.Step = 2
	comp.Duration = 1500
	comp.Coupling = sim.CouplingFrozen.String()

	seasonal := predatorPrey("predator-prey with winter slowdown and summer boom")
	seasonal.Duration = 4 * sim.DaysPerYear
	seasonal.Season = SeasonConfig{Enabled: true, Coefficient: 2}

	epi := base()
	epi.Description = "mutualists hit by recurring disease"
	epi.Populations = []sim.Population{{Amount: 500, Growth: 0.01}, {Amount: 500, Growth: 0.01}}
	epi.Coeffs = [][]float64{{0, 0.00001}, {0.00001, 0}}
	epi.Seed = 7
	epi.Disease = DiseaseConfig{SpawnRate: 0.01, Resistance: []float64{0.5, 0.8}}

	esc := predatorPrey("predator-prey where prey often evades")
	esc.Seed = 3
	esc.Escape = EscapeConfig{Enabled: true, Probability: 30}

	return map[string]*Config{
		"default":       def,
		"predator_prey": pp,
		"competition":   comp,
		"seasonal":      seasonal,
		"epidemic":      epi,
		"escape":        esc,
	}
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := cfg.Clone()
	cp.Name = name
	return cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
