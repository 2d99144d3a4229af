package optim

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/popsim/internal/analysis"
	"github.com/san-kum/popsim/internal/sim"
)

func flat() *sim.Config {
	cfg := sim.DefaultConfig(2)
	cfg.Coeffs = sim.NewMatrix(2, 0)
	cfg.Duration = 20
	return cfg
}

func TestGridSearchMaximize(t *testing.T) {
	growth0 := analysis.Param{Kind: analysis.ParamGrowth, I: 0}
	growth1 := analysis.Param{Kind: analysis.ParamGrowth, I: 1}
	g, err := NewGridSearch(
		[]analysis.Param{growth0, growth1},
		[][]float64{{0, 0.01, 0.02}, {-0.01, 0.03}},
		"final_total", true, 1,
	)
	require.NoError(t, err)

	best, err := g.Search(context.Background(), flat(), log.New(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, 6, best.Runs)
	assert.Equal(t, map[string]float64{"growth:0": 0.02, "growth:1": 0.03}, best.Values)
	assert.Greater(t, best.Score, 200.0)
}

func TestGridSearchMinimize(t *testing.T) {
	g, err := NewGridSearch(
		[]analysis.Param{{Kind: analysis.ParamGrowth, I: 0}},
		[][]float64{{0.02, -0.02, 0}},
		"final_total", false, 1,
	)
	require.NoError(t, err)

	base := flat()
	best, err := g.Search(context.Background(), base, log.New(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, -0.02, best.Values["growth:0"])
	assert.Equal(t, 0.01, base.Populations[0].Growth)
}

func TestGridSearchErrors(t *testing.T) {
	_, err := NewGridSearch(nil, nil, "final_total", true, 1)
	assert.Error(t, err)

	p := analysis.Param{Kind: analysis.ParamGrowth, I: 0}
	_, err = NewGridSearch([]analysis.Param{p}, [][]float64{{}}, "final_total", true, 1)
	assert.Error(t, err)

	g, err := NewGridSearch([]analysis.Param{p}, [][]float64{{1}}, "energy", true, 1)
	require.NoError(t, err)
	_, err = g.Search(context.Background(), flat(), log.New(io.Discard))
	assert.Error(t, err)

	bad := analysis.Param{Kind: analysis.ParamCoeff, I: 0, J: 9}
	g, err = NewGridSearch([]analysis.Param{bad}, [][]float64{{1}}, "final_total", true, 1)
	require.NoError(t, err)
	_, err = g.Search(context.Background(), flat(), log.New(io.Discard))
	assert.Error(t, err)
}

func TestParseAxis(t *testing.T) {
	p, values, err := ParseAxis("coeff:0,1=-0.001, 0.002")
	require.NoError(t, err)
	assert.Equal(t, analysis.Param{Kind: analysis.ParamCoeff, I: 0, J: 1}, p)
	assert.Equal(t, []float64{-0.001, 0.002}, values)

	for _, bad := range []string{"growth:0", "rate:1=1", "growth:0=a"} {
		_, _, err := ParseAxis(bad)
		assert.Error(t, err, bad)
	}
}
