package analysis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/san-kum/popsim/internal/experiment"
	"github.com/san-kum/popsim/internal/sim"
)

type ParamKind int

const (
	ParamGrowth ParamKind = iota
	ParamCoeff
)

// Param names the value a sweep varies: the growth rate of population I,
// or the interaction coefficient [I][J].
type Param struct {
	Kind ParamKind
	I, J int
}

// ParseParam accepts "growth:<i>" or "coeff:<i>,<j>".
func ParseParam(s string) (Param, error) {
	kind, idx, ok := strings.Cut(s, ":")
	if !ok {
		return Param{}, fmt.Errorf("invalid sweep parameter %q (want growth:<i> or coeff:<i>,<j>)", s)
	}
	switch kind {
	case "growth":
		i, err := strconv.Atoi(idx)
		if err != nil {
			return Param{}, fmt.Errorf("invalid population index in %q: %w", s, err)
		}
		return Param{Kind: ParamGrowth, I: i}, nil
	case "coeff":
		a, b, ok := strings.Cut(idx, ",")
		if !ok {
			return Param{}, fmt.Errorf("invalid coefficient in %q (want coeff:<i>,<j>)", s)
		}
		i, err := strconv.Atoi(a)
		if err != nil {
			return Param{}, fmt.Errorf("invalid row in %q: %w", s, err)
		}
		j, err := strconv.Atoi(b)
		if err != nil {
			return Param{}, fmt.Errorf("invalid column in %q: %w", s, err)
		}
		return Param{Kind: ParamCoeff, I: i, J: j}, nil
	}
	return Param{}, fmt.Errorf("unknown sweep parameter kind %q", kind)
}

func (p Param) String() string {
	if p.Kind == ParamCoeff {
		return fmt.Sprintf("coeff:%d,%d", p.I, p.J)
	}
	return fmt.Sprintf("growth:%d", p.I)
}

// Apply sets the parameter to v in cfg.
func (p Param) Apply(cfg *sim.Config, v float64) error {
	n := cfg.N()
	switch p.Kind {
	case ParamGrowth:
		if p.I < 0 || p.I >= n {
			return fmt.Errorf("population %d out of range [0,%d)", p.I, n)
		}
		cfg.Populations[p.I].Growth = v
	case ParamCoeff:
		if p.I < 0 || p.I >= n || p.J < 0 || p.J >= n {
			return fmt.Errorf("coefficient [%d][%d] out of range for %d populations", p.I, p.J, n)
		}
		cfg.Coeffs[p.I][p.J] = v
	}
	return nil
}

// Sweep varies one parameter across [Min, Max] and, for each value, records
// the distinct values population Index takes over the last Record snapshots
// of a fresh seeded run.
type Sweep struct {
	Base   *sim.Config
	Param  Param
	Min    float64
	Max    float64
	Steps  int
	Index  int
	Record int
	Seed   uint64
}

type SweepPoint struct {
	Param  float64
	Values []float64
	Final  sim.Snapshot
}

func (s *Sweep) Run(ctx context.Context, logger *log.Logger) ([]SweepPoint, error) {
	if s.Base == nil {
		return nil, fmt.Errorf("sweep: missing base config")
	}
	if s.Index < 0 || s.Index >= s.Base.N() {
		return nil, fmt.Errorf("sweep: population %d out of range", s.Index)
	}
	steps := s.Steps
	if steps <= 1 {
		steps = 2
	}
	record := s.Record
	if record < 1 {
		record = 1
	}
	paramStep := (s.Max - s.Min) / float64(steps-1)

	points := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		value := s.Min + float64(i)*paramStep
		cfg := s.Base.Clone()
		if err := s.Param.Apply(cfg, value); err != nil {
			return points, fmt.Errorf("sweep: %w", err)
		}

		exp := experiment.New(experiment.Config{
			Name: fmt.Sprintf("%s=%g", s.Param, value),
			Sim:  cfg,
			Seed: s.Seed,
		}, logger)
		if err := exp.Setup(); err != nil {
			return points, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return points, err
		}

		points = append(points, SweepPoint{
			Param:  value,
			Values: tailValues(result.Series(s.Index), record),
			Final:  result.Final(),
		})
		logger.Debug("sweep point", "param", s.Param, "value", value, "distinct", len(points[i].Values))
	}
	return points, nil
}

// tailValues returns the distinct values among the last n entries,
// quantized to three decimals, in order of first appearance.
func tailValues(series []float64, n int) []float64 {
	if n > len(series) {
		n = len(series)
	}
	values := make([]float64, 0, n)
	seen := make(map[int64]bool)
	for _, v := range series[len(series)-n:] {
		key := int64(v * 1000)
		if !seen[key] {
			seen[key] = true
			values = append(values, v)
		}
	}
	return values
}

// SweepToASCII plots every recorded value against its parameter column.
func SweepToASCII(points []SweepPoint, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for _, p := range points {
		for _, v := range p.Values {
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := newCanvas(width, height)
	for i, p := range points {
		col := i * width / len(points)
		if col >= width {
			col = width - 1
		}
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}
	return canvasString(canvas)
}
