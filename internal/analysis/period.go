package analysis

// DominantPeriod returns the period, in days, of the strongest non-constant
// frequency component of series sampled every step days. It returns 0 when
// the series is too short or has no oscillating component.
func DominantPeriod(series []float64, step int) float64 {
	if len(series) < 4 || step < 1 {
		return 0
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	n := nextPow2(len(series))
	padded := make([]float64, n)
	for i, v := range series {
		padded[i] = v - mean
	}

	ps := PowerSpectrum(padded)

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower < 1e-9 {
		return 0
	}

	return float64(n) / float64(maxIdx) * float64(step)
}
