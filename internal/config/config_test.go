package config

import (
	"errors"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/san-kum/popsim/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Populations) != sim.DefaultPopulations {
		t.Errorf("expected %d populations, got %d", sim.DefaultPopulations, len(cfg.Populations))
	}
	if cfg.Step != sim.DefaultStep {
		t.Errorf("expected step %d, got %d", sim.DefaultStep, cfg.Step)
	}

	s, err := cfg.ToSim()
	if err != nil {
		t.Fatalf("default config should convert: %v", err)
	}
	if s.Coupling != sim.CouplingLagged {
		t.Errorf("expected lagged coupling, got %s", s.Coupling)
	}
	if s.Coeffs[0][1] != sim.DefaultCoefficient {
		t.Errorf("expected default coefficient, got %v", s.Coeffs[0][1])
	}
}

func TestPresetsConvert(t *testing.T) {
	for _, name := range ListPresets() {
		if _, err := GetPreset(name).ToSim(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("epidemic")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Name != "epidemic" {
		t.Errorf("expected name epidemic, got %q", cfg.Name)
	}
	if cfg.Disease.SpawnRate != 0.01 {
		t.Errorf("expected spawn rate 0.01, got %v", cfg.Disease.SpawnRate)
	}

	cfg.Disease.Resistance[0] = 9
	if Presets["epidemic"].Disease.Resistance[0] == 9 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	if !sort.StringsAreSorted(presets) {
		t.Errorf("presets should be sorted: %v", presets)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		pops     int
		step     int
		duration int
		wantErr  error
	}{
		{"empty keeps defaults", "", 2, sim.DefaultStep, sim.DefaultDuration, nil},
		{"scalars", "step: 5\nduration: 50\n", 2, 5, 50, nil},
		{"explicit zero duration", "duration: 0\n", 2, sim.DefaultStep, 0, nil},
		{
			"new count gets a default matrix",
			"populations:\n  - {amount: 10, growth: 0.1}\n  - {amount: 20, growth: 0.1}\n  - {amount: 30, growth: 0.1}\n",
			3, sim.DefaultStep, sim.DefaultDuration, nil,
		},
		{
			"explicit matrix of the wrong shape",
			"populations:\n  - {amount: 10, growth: 0.1}\ncoeffs: [[0, 1], [1, 0]]\n",
			1, sim.DefaultStep, sim.DefaultDuration, sim.ErrShapeMismatch,
		},
		{"bad coupling", "coupling: rk4\n", 2, sim.DefaultStep, sim.DefaultDuration, sim.ErrInvalidRange},
		{
			"explicit resistance of the wrong length",
			"populations:\n  - {amount: 10, growth: 0.1}\n  - {amount: 20, growth: 0.1}\n  - {amount: 30, growth: 0.1}\ndisease: {spawn_rate: 0.1, resistance: [0.5, 0.5]}\n",
			3, sim.DefaultStep, sim.DefaultDuration, sim.ErrShapeMismatch,
		},
		{
			"carried-over resistance resets with the count",
			"populations:\n  - {amount: 10, growth: 0.1}\n  - {amount: 20, growth: 0.1}\n  - {amount: 30, growth: 0.1}\ndisease: {spawn_rate: 0.1}\n",
			3, sim.DefaultStep, sim.DefaultDuration, nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml), DefaultConfig())
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if len(cfg.Populations) != tt.pops {
				t.Errorf("expected %d populations, got %d", tt.pops, len(cfg.Populations))
			}
			if cfg.Step != tt.step {
				t.Errorf("expected step %d, got %d", tt.step, cfg.Step)
			}
			if cfg.Duration != tt.duration {
				t.Errorf("expected duration %d, got %d", tt.duration, cfg.Duration)
			}

			_, err = cfg.ToSim()
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("step: [1"), nil); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epidemic.yaml")
	want := GetPreset("epidemic")
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got.Populations, want.Populations) {
		t.Errorf("populations: expected %v, got %v", want.Populations, got.Populations)
	}
	if !reflect.DeepEqual(got.Coeffs, want.Coeffs) {
		t.Errorf("coeffs: expected %v, got %v", want.Coeffs, got.Coeffs)
	}
	if !reflect.DeepEqual(got.Disease, want.Disease) {
		t.Errorf("disease: expected %v, got %v", want.Disease, got.Disease)
	}
	if got.Seed != want.Seed {
		t.Errorf("seed: expected %d, got %d", want.Seed, got.Seed)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()
	n, rate, prob, coupling := 3, 0.1, 20.0, "frozen"
	on := true

	err := cfg.Apply(Overrides{
		Populations:       &n,
		SpawnRate:         &rate,
		Escape:            &on,
		EscapeProbability: &prob,
		Coupling:          &coupling,
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	s, err := cfg.ToSim()
	if err != nil {
		t.Fatalf("to sim: %v", err)
	}
	if s.N() != 3 {
		t.Errorf("expected 3 populations, got %d", s.N())
	}
	if !s.Escape.Enabled || s.Escape.Probability != 20 {
		t.Errorf("unexpected escape %+v", s.Escape)
	}
	if len(s.Disease.Resistance) != 3 {
		t.Errorf("expected 3 resistance entries, got %d", len(s.Disease.Resistance))
	}
	if s.Coupling != sim.CouplingFrozen {
		t.Errorf("expected frozen coupling, got %s", s.Coupling)
	}

	zero := 0
	if err := cfg.Apply(Overrides{Populations: &zero}); err == nil {
		t.Error("expected error for zero populations")
	}
}

func TestToSimKeepsDisabledSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Escape.Probability = 70
	cfg.Season.Coefficient = 3

	s, err := cfg.ToSim()
	if err != nil {
		t.Fatalf("to sim: %v", err)
	}
	if s.Escape.Enabled || s.Escape.Probability != 70 {
		t.Errorf("unexpected escape %+v", s.Escape)
	}
	if s.Season.Enabled || s.Season.Coefficient != 3 {
		t.Errorf("unexpected season %+v", s.Season)
	}

	back := FromSim(s, 5)
	if back.Escape.Probability != 70 || back.Seed != 5 {
		t.Errorf("unexpected round trip %+v", back)
	}
}
