package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/popsim/internal/config"
	"github.com/san-kum/popsim/internal/experiment"
	"github.com/san-kum/popsim/internal/metrics"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`

	dir string
}

// ScenarioStep is a single run in a scenario. The run starts from the
// preset, then the config file, then the inline overrides.
type ScenarioStep struct {
	Name    string   `yaml:"name"`
	Preset  string   `yaml:"preset"`
	Config  string   `yaml:"config"`
	Metrics []string `yaml:"metrics"`
	Seeds   int      `yaml:"seeds"`

	config.Overrides `yaml:",inline"`
}

// StepResult holds every run of one step. Summary is only filled for
// steps with more than one seed.
type StepResult struct {
	Name    string
	Runs    []*experiment.Result
	Summary *experiment.Summary
}

// LoadScenario loads a scenario from a YAML file. Config paths inside it
// are resolved relative to the file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	scenario.dir = filepath.Dir(path)
	return scenario, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Resolve builds the file-form config a step runs with.
func (s *Scenario) Resolve(step ScenarioStep) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", step.Preset)
		}
	}
	if step.Config != "" {
		path := step.Config
		if !filepath.IsAbs(path) && s.dir != "" {
			path = filepath.Join(s.dir, path)
		}
		loaded, err := config.LoadOnto(path, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.Apply(step.Overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *log.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("%s/%d", scenario.Name, i+1)
		}
		logger.Info("running step", "step", i+1, "of", len(scenario.Steps), "name", name)

		cfg, err := scenario.Resolve(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		simCfg, err := cfg.ToSim()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		if _, err := registry.Metrics(step.Metrics...); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		newMetrics := func() []metrics.Metric {
			if len(step.Metrics) == 0 {
				return registry.DefaultMetrics()
			}
			ms, _ := registry.Metrics(step.Metrics...)
			return ms
		}

		expCfg := experiment.Config{Name: name, Sim: simCfg, Seed: cfg.Seed}
		if step.Seeds > 1 {
			runs, err := experiment.NewEnsemble(expCfg, step.Seeds, cfg.Seed, logger).Run(ctx, newMetrics)
			if err != nil {
				return results, fmt.Errorf("step %d run: %w", i+1, err)
			}
			summary := experiment.Summarize(runs)
			results = append(results, StepResult{Name: name, Runs: runs, Summary: &summary})
			continue
		}

		exp := experiment.New(expCfg, logger)
		if err := exp.Setup(newMetrics()...); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, StepResult{Name: name, Runs: []*experiment.Result{result}})
	}

	return results, nil
}
