package sim

const (
	DaysPerYear = 365

	winterEnd   = 58  // first non-winter day
	winterStart = 335 // first winter day at year end
	summerStart = 149
	summerEnd   = 239 // inclusive
)

type SeasonBand int

const (
	Offseason SeasonBand = iota
	Winter
	Summer
)

func (b SeasonBand) String() string {
	switch b {
	case Winter:
		return "winter"
	case Summer:
		return "summer"
	default:
		return "offseason"
	}
}

// SeasonOf returns the band for a simulated day.
func SeasonOf(day int) SeasonBand {
	d := day % DaysPerYear
	if d < 0 {
		d += DaysPerYear
	}
	switch {
	case d < winterEnd || d >= winterStart:
		return Winter
	case d >= summerStart && d <= summerEnd:
		return Summer
	default:
		return Offseason
	}
}

// Modulate scales a growth rate for the given band. Winter shrinks positive
// rates and amplifies negative ones; summer does the inverse.
func Modulate(growth, coefficient float64, band SeasonBand) float64 {
	switch band {
	case Winter:
		if growth > 0 {
			return growth * (1 / coefficient)
		}
		return growth * coefficient
	case Summer:
		if growth > 0 {
			return growth * coefficient
		}
		return growth * (1 / coefficient)
	default:
		return growth
	}
}
