package optim

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/san-kum/popsim/internal/analysis"
	"github.com/san-kum/popsim/internal/experiment"
	"github.com/san-kum/popsim/internal/sim"
)

// GridSearch tries every combination of parameter values and keeps the one
// with the best metric.
type GridSearch struct {
	params   []analysis.Param
	ranges   [][]float64
	metric   string
	maximize bool
	seed     uint64
}

type Best struct {
	Values map[string]float64
	Score  float64
	Runs   int
}

func NewGridSearch(params []analysis.Param, ranges [][]float64, metric string, maximize bool, seed uint64) (*GridSearch, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("grid search needs at least one parameter")
	}
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("got %d parameters but %d value ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", params[i])
		}
	}
	return &GridSearch{params: params, ranges: ranges, metric: metric, maximize: maximize, seed: seed}, nil
}

// ParseAxis reads "<param>=v1,v2,..." such as "growth:0=0.01,0.02".
func ParseAxis(s string) (analysis.Param, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok {
		return analysis.Param{}, nil, fmt.Errorf("invalid grid axis %q (want <param>=v1,v2,...)", s)
	}
	p, err := analysis.ParseParam(name)
	if err != nil {
		return analysis.Param{}, nil, err
	}
	var values []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return analysis.Param{}, nil, fmt.Errorf("invalid value in %q: %w", s, err)
		}
		values = append(values, v)
	}
	return p, values, nil
}

func (g *GridSearch) better(v, best float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if g.maximize {
		return v > best
	}
	return v < best
}

// Search runs one seeded experiment per grid point on a copy of base.
func (g *GridSearch) Search(ctx context.Context, base *sim.Config, logger *log.Logger) (*Best, error) {
	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(g.metric); err != nil {
		return nil, err
	}

	best := &Best{Score: math.Inf(1)}
	if g.maximize {
		best.Score = math.Inf(-1)
	}
	err := g.searchRecursive(ctx, 0, base.Clone(), make(map[string]float64), registry, best, logger)
	if err != nil {
		return best, err
	}
	if best.Values == nil {
		return best, fmt.Errorf("no grid point produced a usable %s", g.metric)
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	cfg *sim.Config,
	current map[string]float64,
	registry *experiment.Registry,
	best *Best,
	logger *log.Logger,
) error {
	if depth == len(g.params) {
		m, _ := registry.GetMetric(g.metric)
		exp := experiment.New(experiment.Config{Name: "grid", Sim: cfg, Seed: g.seed}, logger)
		if err := exp.Setup(m); err != nil {
			return err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		best.Runs++

		val := result.Metrics[g.metric]
		logger.Debug("grid point", "values", current, g.metric, val)
		if g.better(val, best.Score) {
			best.Score = val
			best.Values = make(map[string]float64, len(current))
			for k, v := range current {
				best.Values[k] = v
			}
		}
		return nil
	}

	param := g.params[depth]
	for _, val := range g.ranges[depth] {
		next := cfg.Clone()
		if err := param.Apply(next, val); err != nil {
			return err
		}
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[param.String()] = val

		if err := g.searchRecursive(ctx, depth+1, next, newParams, registry, best, logger); err != nil {
			return err
		}
	}
	return nil
}
