package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/popsim/internal/config"
	"github.com/san-kum/popsim/internal/sim"
)

const envPrefix = "POPSIM"

// addSimFlags registers the flags shared by every command that builds a
// run. Flag defaults are for help output only; a flag that is not set
// leaves the preset or config file value in place.
func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("config", "", "config file path (yaml)")
	f.String("preset", "", "start from a named preset")
	f.Int("populations", sim.DefaultPopulations, "number of populations (resets amounts and coefficients)")
	f.Int("step", sim.DefaultStep, "days per snapshot")
	f.Int("time", sim.DefaultDuration, "duration in days")
	f.Uint64("seed", config.DefaultSeed, "random seed")
	f.String("coupling", "lagged", "lagged or frozen")
	f.Bool("season", false, "enable seasonal growth modulation")
	f.Float64("season-coeff", 1, "season coefficient (>= 1)")
	f.Float64("disease", 0, "disease spawn rate per day in [0,1]")
	f.StringSlice("resistance", nil, "disease resistance per population")
	f.Bool("escape", false, "enable escape from negative interactions")
	f.Float64("escape-prob", sim.DefaultEscape, "escape probability in percent")
}

// newViper binds the command's flags and POPSIM_* environment variables.
// Flags win over the environment.
func newViper(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(cmd.Flags())
	return v
}

// resolveConfig layers defaults, preset, config file and then explicit
// flag or environment values.
func resolveConfig(v *viper.Viper) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if name := v.GetString("preset"); name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}
	if path := v.GetString("config"); path != "" {
		loaded, err := config.LoadOnto(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	o, err := overridesFrom(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(o); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overridesFrom(v *viper.Viper) (config.Overrides, error) {
	var o config.Overrides
	if v.IsSet("populations") {
		n := v.GetInt("populations")
		o.Populations = &n
	}
	if v.IsSet("step") {
		n := v.GetInt("step")
		o.Step = &n
	}
	if v.IsSet("time") {
		n := v.GetInt("time")
		o.Duration = &n
	}
	if v.IsSet("seed") {
		n := v.GetUint64("seed")
		o.Seed = &n
	}
	if v.IsSet("coupling") {
		s := v.GetString("coupling")
		o.Coupling = &s
	}
	if v.IsSet("season") {
		b := v.GetBool("season")
		o.Season = &b
	}
	if v.IsSet("season-coeff") {
		f := v.GetFloat64("season-coeff")
		o.SeasonCoefficient = &f
	}
	if v.IsSet("disease") {
		f := v.GetFloat64("disease")
		o.SpawnRate = &f
	}
	if v.IsSet("resistance") {
		r, err := parseFloats(v.GetStringSlice("resistance"))
		if err != nil {
			return o, fmt.Errorf("resistance: %w", err)
		}
		o.Resistance = r
	}
	if v.IsSet("escape") {
		b := v.GetBool("escape")
		o.Escape = &b
	}
	if v.IsSet("escape-prob") {
		f := v.GetFloat64("escape-prob")
		o.EscapeProbability = &f
	}
	return o, nil
}

// parseFloats accepts values split by commas or whitespace, which covers
// both repeated flags and a single environment variable.
func parseFloats(items []string) ([]float64, error) {
	var out []float64
	for _, item := range items {
		for _, field := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' }) {
			f, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
	}
	return out, nil
}
