package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cpusim/sim/workload"
)

// RunDefaults holds the run parameters used when neither flags nor a run config set them.
type RunDefaults struct {
	Quantum  int64    `yaml:"quantum"`
	Policies []string `yaml:"policies"`
}

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version   string                            `yaml:"version"`
	Defaults  RunDefaults                       `yaml:"defaults"`
	Workloads map[string]workload.GeneratorSpec `yaml:"workloads"`
}

// loadDefaultsConfig parses defaults.yaml into a Config struct.
// Uses strict field checking.
func loadDefaultsConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading defaults file %s: %w", path, err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing defaults file %s: %w", path, err)
	}
	return cfg, nil
}

// GetPreset returns the named workload generator preset from the defaults file.
func GetPreset(name string, defaultsPath string) (workload.GeneratorSpec, error) {
	cfg, err := loadDefaultsConfig(defaultsPath)
	if err != nil {
		return workload.GeneratorSpec{}, err
	}
	preset, ok := cfg.Workloads[name]
	if !ok {
		return workload.GeneratorSpec{}, fmt.Errorf("unknown workload preset %q; available: %v", name, presetNames(cfg))
	}
	if err := preset.Validate(); err != nil {
		return workload.GeneratorSpec{}, fmt.Errorf("preset %q: %w", name, err)
	}
	return preset, nil
}

func presetNames(cfg Config) []string {
	names := make([]string, 0, len(cfg.Workloads))
	for n := range cfg.Workloads {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
