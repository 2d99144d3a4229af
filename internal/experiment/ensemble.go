package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/popsim/internal/metrics"
)

// Ensemble repeats one configuration over consecutive seeds. Runs execute
// one after another; each owns its driver and generator.
type Ensemble struct {
	base      Config
	numRuns   int
	seedStart uint64
	logger    *log.Logger
}

func NewEnsemble(cfg Config, numRuns int, seedStart uint64, logger *log.Logger) *Ensemble {
	return &Ensemble{base: cfg, numRuns: numRuns, seedStart: seedStart, logger: logger}
}

// Run executes every member. newMetrics is called once per member so that
// metric state is never shared between runs; it may be nil.
func (e *Ensemble) Run(ctx context.Context, newMetrics func() []metrics.Metric) ([]*Result, error) {
	if e.numRuns < 1 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}

	results := make([]*Result, 0, e.numRuns)
	for i := 0; i < e.numRuns; i++ {
		cfg := e.base
		cfg.Seed = e.seedStart + uint64(i)
		cfg.Name = fmt.Sprintf("%s#%d", e.base.Name, i)

		exp := New(cfg, e.logger)
		var ms []metrics.Metric
		if newMetrics != nil {
			ms = newMetrics()
		}
		if err := exp.Setup(ms...); err != nil {
			return results, err
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	e.logger.Info("ensemble finished", "name", e.base.Name, "runs", len(results))
	return results, nil
}

type Summary struct {
	Runs      int
	MeanFinal float64
	MinFinal  float64
	MaxFinal  float64
	StdFinal  float64
	// Collapsed counts runs whose final total is at or below zero.
	Collapsed int
}

// Summarize aggregates the final totals of a set of runs.
func Summarize(results []*Result) Summary {
	s := Summary{Runs: len(results)}
	if len(results) == 0 {
		return s
	}

	s.MinFinal, s.MaxFinal = math.Inf(1), math.Inf(-1)
	sum := 0.0
	for _, r := range results {
		t := r.Final().Total()
		sum += t
		s.MinFinal = math.Min(s.MinFinal, t)
		s.MaxFinal = math.Max(s.MaxFinal, t)
		if t <= 0 {
			s.Collapsed++
		}
	}
	s.MeanFinal = sum / float64(len(results))

	variance := 0.0
	for _, r := range results {
		d := r.Final().Total() - s.MeanFinal
		variance += d * d
	}
	s.StdFinal = math.Sqrt(variance / float64(len(results)))
	return s
}
