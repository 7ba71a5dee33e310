package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes one simulation run: initial conditions, integrator
// settings, and the archive file to produce.
type Scenario struct {
	Name        string             `yaml:"name"`
	G           float64            `yaml:"g"`
	Dt          float64            `yaml:"dt"`
	Interval    float64            `yaml:"interval"`
	TMax        float64            `yaml:"tmax"`
	Output      string             `yaml:"output"`
	MaxDistance float64            `yaml:"max_distance"`
	Particles   []ScenarioParticle `yaml:"particles"`
}

// ScenarioParticle is one particle's initial state. Omitted fields are zero.
type ScenarioParticle struct {
	M  float64 `yaml:"m"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	Z  float64 `yaml:"z"`
	VX float64 `yaml:"vx"`
	VY float64 `yaml:"vy"`
	VZ float64 `yaml:"vz"`
}

// LoadScenario reads and validates a YAML scenario file. Unknown fields are
// rejected so typos fail loudly instead of silently running with defaults.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var sc Scenario
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if sc.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", sc.Dt)
	}
	if sc.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %g", sc.Interval)
	}
	if sc.TMax <= 0 {
		return fmt.Errorf("tmax must be positive, got %g", sc.TMax)
	}
	if sc.Output == "" {
		return fmt.Errorf("output is required")
	}
	if len(sc.Particles) == 0 {
		return fmt.Errorf("at least one particle is required")
	}
	return nil
}
