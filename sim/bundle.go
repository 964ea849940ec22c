package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cpusim/sim/trace"
)

// RunBundle holds run configuration, loadable from a YAML file.
// Nil pointer fields mean "not set in YAML"; they do not override SimConfig.
// String fields use empty string for "not set".
type RunBundle struct {
	Policies   []string `yaml:"policies"`
	Quantum    *int64   `yaml:"quantum"`
	Horizon    *int64   `yaml:"horizon"`
	MaxEvents  *int     `yaml:"max_events"`
	TraceLevel string   `yaml:"trace_level"`
}

// LoadRunBundle reads and parses a YAML run configuration file.
// Unknown keys are rejected so typos surface as errors.
func LoadRunBundle(path string) (*RunBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var bundle RunBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &bundle, nil
}

// Validate checks that all policy names and parameter ranges in the bundle are valid.
func (b *RunBundle) Validate() error {
	for _, name := range b.Policies {
		if !IsValidPolicy(name) {
			return fmt.Errorf("%w %q", ErrUnknownPolicy, name)
		}
	}
	if !trace.IsValidTraceLevel(b.TraceLevel) {
		return fmt.Errorf("unknown trace level %q", b.TraceLevel)
	}
	// Parameter range validation
	if b.Quantum != nil && *b.Quantum < 1 {
		return fmt.Errorf("quantum must be positive, got %d", *b.Quantum)
	}
	if b.Horizon != nil && (*b.Horizon < 0 || *b.Horizon > MaxHorizon) {
		return fmt.Errorf("horizon must be in [0, %d], got %d", MaxHorizon, *b.Horizon)
	}
	if b.MaxEvents != nil && *b.MaxEvents < 0 {
		return fmt.Errorf("max_events must be non-negative, got %d", *b.MaxEvents)
	}
	return nil
}

// Apply overrides cfg with every field set in the bundle.
func (b *RunBundle) Apply(cfg *SimConfig) {
	if b.Quantum != nil {
		cfg.Quantum = *b.Quantum
	}
	if b.Horizon != nil {
		cfg.Horizon = *b.Horizon
	}
	if b.MaxEvents != nil {
		cfg.MaxEvents = *b.MaxEvents
	}
	if b.TraceLevel != "" {
		cfg.TraceLevel = trace.TraceLevel(b.TraceLevel)
	}
}
