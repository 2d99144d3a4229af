package sim

// Integrator performs one micro-step (one simulated day) of the community
// update on x and returns the new amounts. x is not modified.
type Integrator interface {
	Step(c *Community, x State, day int, rnd Rand) State
}

// Lagged writes each population's new amount immediately, so population i
// sees the values already produced for indices below i in the same
// micro-step.
type Lagged struct{}

func NewLagged() *Lagged { return &Lagged{} }

func (l *Lagged) Step(c *Community, x State, day int, rnd Rand) State {
	w := x.Clone()
	for i := range w {
		n := w[i]
		w[i] = n + c.Rate(i, n, w, day, rnd)
		w[i] = c.Shock(i, w[i], rnd)
	}
	return w
}

// Frozen computes every population against the amounts fixed at the start
// of the micro-step and only then advances.
type Frozen struct{}

func NewFrozen() *Frozen { return &Frozen{} }

func (f *Frozen) Step(c *Community, x State, day int, rnd Rand) State {
	next := make(State, len(x))
	for i, n := range x {
		next[i] = n + c.Rate(i, n, x, day, rnd)
		next[i] = c.Shock(i, next[i], rnd)
	}
	return next
}

// IntegratorFor maps a coupling choice to its integrator.
func IntegratorFor(c Coupling) Integrator {
	if c == CouplingFrozen {
		return NewFrozen()
	}
	return NewLagged()
}

// Advance produces the snapshot cfg.Step days after prev by running
// cfg.Step micro-steps. Day k of the macro-step is prev.Day+k for seasonal
// purposes. Arithmetic is unguarded: negative, infinite or NaN amounts
// propagate as ordinary values.
func Advance(prev Snapshot, cfg *Config, rnd Rand) Snapshot {
	return advance(NewCommunity(cfg), IntegratorFor(cfg.Coupling), prev, cfg.Step, rnd)
}

func advance(c *Community, integ Integrator, prev Snapshot, step int, rnd Rand) Snapshot {
	x := prev.Amounts
	for k := 0; k < step; k++ {
		x = integ.Step(c, x, prev.Day+k, rnd)
	}
	if step == 0 {
		x = x.Clone()
	}
	return Snapshot{Day: prev.Day + step, Amounts: x}
}
