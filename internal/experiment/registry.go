package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/popsim/internal/metrics"
	"github.com/san-kum/popsim/internal/sim"
)

const boundednessThreshold = 1e9

type Registry struct {
	couplings map[string]sim.Coupling
	metrics   map[string]func() metrics.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		couplings: make(map[string]sim.Coupling),
		metrics:   make(map[string]func() metrics.Metric),
	}

	r.couplings["lagged"] = sim.CouplingLagged
	r.couplings["frozen"] = sim.CouplingFrozen

	r.metrics["final_total"] = func() metrics.Metric { return metrics.NewFinalTotal() }
	r.metrics["peak_total"] = func() metrics.Metric { return metrics.NewPeakTotal() }
	r.metrics["extinctions"] = func() metrics.Metric { return metrics.NewExtinctions() }
	r.metrics["boundedness"] = func() metrics.Metric { return metrics.NewBoundedness(boundednessThreshold) }
	r.metrics["dominant"] = func() metrics.Metric { return metrics.NewDominance() }

	return r
}

func (r *Registry) GetCoupling(name string) (sim.Coupling, error) {
	c, ok := r.couplings[name]
	if !ok {
		return 0, fmt.Errorf("unknown coupling: %s (available: %v)", name, r.ListCouplings())
	}
	return c, nil
}

func (r *Registry) GetMetric(name string) (metrics.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s (available: %v)", name, r.ListMetrics())
	}
	return fn(), nil
}

// Metrics builds fresh instances of the named metrics.
func (r *Registry) Metrics(names ...string) ([]metrics.Metric, error) {
	out := make([]metrics.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListCouplings() []string {
	return sortedKeys(r.couplings)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

func (r *Registry) DefaultMetrics() []metrics.Metric {
	ms, _ := r.Metrics(r.ListMetrics()...)
	return ms
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
