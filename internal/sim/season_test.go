package sim

import (
	"math"
	"testing"
)

func TestSeasonOf_Boundaries(t *testing.T) {
	tests := []struct {
		day  int
		want SeasonBand
	}{
		{0, Winter},
		{57, Winter},
		{58, Offseason},
		{148, Offseason},
		{149, Summer},
		{200, Summer},
		{239, Summer},
		{240, Offseason},
		{334, Offseason},
		{335, Winter},
		{364, Winter},
		{365, Winter},
		{365 + 58, Offseason},
		{365 + 149, Summer},
		{2*365 + 240, Offseason},
	}

	for _, tt := range tests {
		if got := SeasonOf(tt.day); got != tt.want {
			t.Errorf("SeasonOf(%d) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestModulate(t *testing.T) {
	tests := []struct {
		name   string
		growth float64
		band   SeasonBand
		want   float64
	}{
		{"winter positive shrinks", 0.02, Winter, 0.01},
		{"winter negative amplifies", -0.02, Winter, -0.04},
		{"summer positive amplifies", 0.02, Summer, 0.04},
		{"summer negative shrinks", -0.02, Summer, -0.01},
		{"offseason unchanged", 0.02, Offseason, 0.02},
		{"zero stays zero", 0, Winter, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Modulate(tt.growth, 2, tt.band)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Modulate(%v, 2, %v) = %v, want %v", tt.growth, tt.band, got, tt.want)
			}
		})
	}
}

func TestCommunityGrowth_Season(t *testing.T) {
	cfg := DefaultConfig(1)
	cfg.Populations[0].Growth = 0.1
	c := NewCommunity(cfg)

	if got := c.Growth(0, 10); got != 0.1 {
		t.Errorf("season disabled: growth = %v, want 0.1", got)
	}

	cfg.Season = Season{Enabled: true, Coefficient: 2}
	tests := []struct {
		day  int
		want float64
	}{
		{57, 0.05},
		{58, 0.1},
		{149, 0.2},
		{239, 0.2},
		{240, 0.1},
		{335, 0.05},
	}
	for _, tt := range tests {
		if got := c.Growth(0, tt.day); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("day %d: growth = %v, want %v", tt.day, got, tt.want)
		}
	}
}
