package sim

// Community evaluates the per-population update rule for a Config. It holds
// no run state; integrators call it once per population per micro-step.
type Community struct {
	cfg *Config
}

func NewCommunity(cfg *Config) *Community {
	return &Community{cfg: cfg}
}

// Growth returns the growth rate of population i on the given day, after
// seasonal modulation.
func (c *Community) Growth(i, day int) float64 {
	g := c.cfg.Populations[i].Growth
	if !c.cfg.Season.Enabled {
		return g
	}
	return Modulate(g, c.cfg.Season.Coefficient, SeasonOf(day))
}

// Rate returns dN for population i with amount self, reading interaction
// partners from x. Escape draws are consumed in ascending j order.
func (c *Community) Rate(i int, self float64, x State, day int, rnd Rand) float64 {
	dN := self * c.Growth(i, day)
	row := c.cfg.Coeffs[i]
	escape := c.cfg.Escape
	for j, coeff := range row {
		if escape.Enabled && coeff < 0 && rnd.Float64() < escape.Probability/100 {
			continue
		}
		dN += coeff * self * x[j]
	}
	return dN
}

// Shock applies a disease event to population i's freshly updated amount v
// with probability SpawnRate.
func (c *Community) Shock(i int, v float64, rnd Rand) float64 {
	d := c.cfg.Disease
	if d.SpawnRate <= 0 {
		return v
	}
	if rnd.Float64() < d.SpawnRate {
		return v * d.Resistance[i]
	}
	return v
}
