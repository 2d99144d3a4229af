package config

// Overrides holds values set on top of a loaded config. Nil fields leave
// the config untouched.
type Overrides struct {
	Populations       *int      `yaml:"populations,omitempty"`
	Step              *int      `yaml:"step,omitempty"`
	Duration          *int      `yaml:"duration,omitempty"`
	Seed              *uint64   `yaml:"seed,omitempty"`
	Coupling          *string   `yaml:"coupling,omitempty"`
	Season            *bool     `yaml:"season,omitempty"`
	SeasonCoefficient *float64  `yaml:"season_coefficient,omitempty"`
	SpawnRate         *float64  `yaml:"spawn_rate,omitempty"`
	Resistance        []float64 `yaml:"resistance,omitempty"`
	Escape            *bool     `yaml:"escape,omitempty"`
	EscapeProbability *float64  `yaml:"escape_probability,omitempty"`
}

// Apply writes the set fields of o into c. A population count change is
// applied first so later fields see the resized config.
func (c *Config) Apply(o Overrides) error {
	if o.Populations != nil {
		if err := c.Resize(*o.Populations); err != nil {
			return err
		}
	}
	if o.Step != nil {
		c.Step = *o.Step
	}
	if o.Duration != nil {
		c.Duration = *o.Duration
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.Coupling != nil {
		c.Coupling = *o.Coupling
	}
	if o.Season != nil {
		c.Season.Enabled = *o.Season
	}
	if o.SeasonCoefficient != nil {
		c.Season.Coefficient = *o.SeasonCoefficient
	}
	if o.SpawnRate != nil {
		c.Disease.SpawnRate = *o.SpawnRate
	}
	if o.Resistance != nil {
		c.Disease.Resistance = append([]float64(nil), o.Resistance...)
	}
	if o.Escape != nil {
		c.Escape.Enabled = *o.Escape
	}
	if o.EscapeProbability != nil {
		c.Escape.Probability = *o.EscapeProbability
	}
	return nil
}
