package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/popsim/internal/metrics"
	"github.com/san-kum/popsim/internal/sim"
)

type Config struct {
	Name string
	Sim  *sim.Config
	Seed uint64
}

// Experiment drives one run headlessly: it ticks a Driver in a loop until
// the run ends or the context is canceled, feeding each snapshot to the
// configured metrics.
type Experiment struct {
	cfg     Config
	logger  *log.Logger
	driver  *sim.Driver
	metrics []metrics.Metric
}

func New(cfg Config, logger *log.Logger) *Experiment {
	return &Experiment{
		cfg:    cfg,
		logger: logger,
		driver: sim.NewDriver(sim.NewRand(cfg.Seed)),
	}
}

func (e *Experiment) Setup(ms ...metrics.Metric) error {
	if e.cfg.Sim == nil {
		return fmt.Errorf("experiment %q: missing simulation config", e.cfg.Name)
	}
	if err := e.cfg.Sim.Validate(); err != nil {
		return fmt.Errorf("experiment %q: %w", e.cfg.Name, err)
	}
	e.metrics = append(e.metrics[:0], ms...)
	return nil
}

// Run executes the experiment. Cancellation is checked between ticks; on
// cancellation the partial result is returned with the context error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := e.driver.Start(e.cfg.Sim); err != nil {
		return nil, fmt.Errorf("experiment %q: start: %w", e.cfg.Name, err)
	}
	for _, m := range e.metrics {
		m.Reset()
	}

	e.logger.Debug("run started",
		"name", e.cfg.Name,
		"populations", e.cfg.Sim.N(),
		"step", e.cfg.Sim.Step,
		"duration", e.cfg.Sim.Duration,
		"coupling", e.cfg.Sim.Coupling,
		"seed", e.cfg.Seed,
	)

	start := time.Now()
	initial, _ := e.driver.Latest()
	e.observe(initial)

	ticks := 0
	var runErr error
	for {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil || !e.driver.Tick() {
			break
		}
		ticks++
		latest, _ := e.driver.Latest()
		e.observe(latest)
	}

	result := &Result{
		Name:      e.cfg.Name,
		Seed:      e.cfg.Seed,
		Config:    e.driver.Config(),
		Snapshots: e.driver.Snapshots(),
		Metrics:   make(map[string]float64, len(e.metrics)),
		Ticks:     ticks,
		Elapsed:   time.Since(start),
	}
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if runErr != nil {
		e.logger.Warn("run interrupted", "name", e.cfg.Name, "day", e.driver.Day(), "err", runErr)
		e.driver.Stop()
		return result, runErr
	}

	final := result.Final()
	if !final.Amounts.IsValid() {
		e.logger.Warn("run produced non-finite amounts", "name", e.cfg.Name, "day", final.Day)
	}
	e.logger.Debug("run finished",
		"name", e.cfg.Name,
		"ticks", ticks,
		"day", final.Day,
		"total", final.Total(),
		"elapsed", result.Elapsed,
	)
	return result, nil
}

func (e *Experiment) observe(s sim.Snapshot) {
	for _, m := range e.metrics {
		m.Observe(s)
	}
}

// Driver returns the underlying driver.
func (e *Experiment) Driver() *sim.Driver {
	return e.driver
}
