package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/cpusim/sim/trace"
)

// Result is the outcome of one policy run over a workload.
type Result struct {
	Policy      string
	Description string
	Processes   []Process // snapshots in workload order
	Timeline    *Timeline
	Metrics     *Metrics
	Trace       *trace.SimulationTrace // nil unless decision tracing is enabled
}

// RunPolicy simulates a single policy over the workload with a fresh run context.
func RunPolicy(specs []ProcessSpec, name string, cfg SimConfig) (*Result, error) {
	policy, err := NewPolicy(name, cfg.Quantum)
	if err != nil {
		return nil, err
	}
	s, err := NewSimulator(specs, policy, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return nil, fmt.Errorf("running %s: %w", policy.Description(), err)
	}

	snapshots := make([]Process, len(s.Processes()))
	for i, p := range s.Processes() {
		snapshots[i] = *p
	}
	return &Result{
		Policy:      policy.Name(),
		Description: policy.Description(),
		Processes:   snapshots,
		Timeline:    s.Timeline(),
		Metrics:     s.Metrics(),
		Trace:       s.Trace(),
	}, nil
}

// RunAll simulates each named policy in order, one after another.
// An empty names list runs every policy in PolicyNames order.
// The first failing run aborts the sequence.
func RunAll(specs []ProcessSpec, names []string, cfg SimConfig) ([]*Result, error) {
	if len(names) == 0 {
		names = PolicyNames
	}
	results := make([]*Result, 0, len(names))
	for _, name := range names {
		r, err := RunPolicy(specs, name, cfg)
		if err != nil {
			return nil, err
		}
		logrus.Infof("%s: avg waiting %.2f, avg turnaround %.2f",
			r.Description, r.Metrics.AvgWaitingTime, r.Metrics.AvgTurnaroundTime)
		results = append(results, r)
	}
	return results, nil
}

// Best returns the result with the lowest average waiting time; ties keep the
// earlier result. Returns nil for an empty slice.
func Best(results []*Result) *Result {
	var best *Result
	for _, r := range results {
		if best == nil || r.Metrics.AvgWaitingTime < best.Metrics.AvgWaitingTime {
			best = r
		}
	}
	return best
}
