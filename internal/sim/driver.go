package sim

// Driver owns a simulation run and advances it one macro-step per Tick. The
// host decides the cadence (frame callback, timer, loop or test). A Driver
// is not safe for concurrent use; callers serialize ticks.
type Driver struct {
	rnd        Rand
	cfg        *Config
	community  *Community
	integrator Integrator

	snapshots []Snapshot
	day       int
	active    bool
	pendingN  int
}

// NewDriver returns an idle driver drawing randomness from rnd. A nil rnd
// is replaced by NewRand(0).
func NewDriver(rnd Rand) *Driver {
	if rnd == nil {
		rnd = NewRand(0)
	}
	return &Driver{rnd: rnd}
}

// Start validates cfg and resets the run to its initial snapshot. A pending
// population count from Resize is applied to cfg first. On error the
// driver is left inactive with its previous history.
func (d *Driver) Start(cfg *Config) error {
	d.active = false
	c := cfg.Clone()
	if d.pendingN > 0 {
		if err := c.SetPopulationCount(d.pendingN); err != nil {
			return err
		}
	}
	if err := c.Validate(); err != nil {
		return err
	}
	d.pendingN = 0
	d.cfg = c
	d.community = NewCommunity(c)
	d.integrator = IntegratorFor(c.Coupling)

	d.snapshots = make([]Snapshot, 0, c.Duration/c.Step+2)
	d.snapshots = append(d.snapshots, c.InitialSnapshot())
	d.day = 0
	d.active = true
	return nil
}

// Tick advances the run by one macro-step and reports whether a snapshot
// was appended. The first tick that finds day > duration deactivates the
// run instead of advancing.
func (d *Driver) Tick() bool {
	if !d.active {
		return false
	}
	if d.day > d.cfg.Duration {
		d.active = false
		return false
	}
	next := advance(d.community, d.integrator, d.snapshots[len(d.snapshots)-1], d.cfg.Step, d.rnd)
	d.snapshots = append(d.snapshots, next)
	d.day += d.cfg.Step
	return true
}

// Stop deactivates the run; history is kept. Takes effect at the next tick.
func (d *Driver) Stop() { d.active = false }

// Resize requests a new population count for the next Start. It is
// rejected while a run is active and the count differs. Requesting the
// count of the current run cancels any pending change.
func (d *Driver) Resize(n int) error {
	if n < 1 {
		return rangeErr("populations", "count must be at least 1, got %d", n)
	}
	if d.cfg != nil && n == d.cfg.N() {
		d.pendingN = 0
		return nil
	}
	if d.active {
		return ErrRunActive
	}
	d.pendingN = n
	return nil
}

func (d *Driver) Active() bool { return d.active }

func (d *Driver) Day() int { return d.day }

// Config returns a copy of the configuration of the current run, or nil
// before the first Start.
func (d *Driver) Config() *Config {
	if d.cfg == nil {
		return nil
	}
	return d.cfg.Clone()
}

// Snapshots returns the run history. The returned slice is a copy; the
// snapshots themselves must not be modified.
func (d *Driver) Snapshots() []Snapshot {
	out := make([]Snapshot, len(d.snapshots))
	copy(out, d.snapshots)
	return out
}

func (d *Driver) Len() int { return len(d.snapshots) }

// Latest returns the most recent snapshot and false when no run has
// started.
func (d *Driver) Latest() (Snapshot, bool) {
	if len(d.snapshots) == 0 {
		return Snapshot{}, false
	}
	return d.snapshots[len(d.snapshots)-1], true
}

// Total is the sum of amounts in the latest snapshot.
func (d *Driver) Total() float64 {
	s, ok := d.Latest()
	if !ok {
		return 0
	}
	return s.Total()
}
