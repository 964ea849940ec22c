package workload

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cpusim/sim"
)

// WorkloadSpec is the top-level workload configuration.
// Loaded from YAML via LoadWorkloadSpec(path). Either Processes lists the
// workload explicitly or Generator describes how to draw it from Seed.
type WorkloadSpec struct {
	Version   string            `yaml:"version"`
	Seed      int64             `yaml:"seed"`
	Generator *GeneratorSpec    `yaml:"generator,omitempty"`
	Processes []sim.ProcessSpec `yaml:"processes,omitempty"`
}

// LoadWorkloadSpec reads and parses a YAML workload file.
// Uses strict field checking: typos must cause errors.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	if spec.Version == "" {
		spec.Version = "1"
	}
	return &spec, nil
}

// Validate checks that exactly one source is given and that it is well formed.
func (s *WorkloadSpec) Validate() error {
	if s.Version != "1" {
		return fmt.Errorf("unsupported workload version %q", s.Version)
	}
	switch {
	case s.Generator != nil && len(s.Processes) > 0:
		return fmt.Errorf("workload spec sets both generator and processes; pick one")
	case s.Generator != nil:
		return s.Generator.Validate()
	case len(s.Processes) > 0:
		return sim.ValidateWorkload(s.Processes)
	default:
		return fmt.Errorf("workload spec needs a generator or a process list")
	}
}

// ProcessSpecs returns the explicit process list, or generates one from Seed.
func (s *WorkloadSpec) ProcessSpecs() ([]sim.ProcessSpec, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}
	if s.Generator != nil {
		return Generate(*s.Generator, s.Seed)
	}
	warnSharedArrivals(s.Processes)
	return s.Processes, nil
}

// warnSharedArrivals flags processes arriving at the same tick; they enter the
// ready queue in workload order, which is easy to overlook when writing files by hand.
func warnSharedArrivals(specs []sim.ProcessSpec) {
	byArrival := make(map[int64][]int)
	for _, p := range specs {
		byArrival[p.ArrivalTime] = append(byArrival[p.ArrivalTime], p.PID)
	}
	for _, t := range slices.Sorted(maps.Keys(byArrival)) {
		if pids := byArrival[t]; len(pids) > 1 {
			logrus.Warnf("processes %v arrive together at tick %d; they are queued in file order", pids, t)
		}
	}
}
