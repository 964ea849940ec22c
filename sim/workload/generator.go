package workload

import (
	"fmt"

	"github.com/inference-sim/cpusim/sim"
)

// GeneratorSpec bounds the random draws for each process field. All ranges are inclusive.
type GeneratorSpec struct {
	Count       int   `yaml:"count"`
	PriorityMin int   `yaml:"priority_min"`
	PriorityMax int   `yaml:"priority_max"`
	ArrivalMax  int64 `yaml:"arrival_max"`
	CPUBurstMin int64 `yaml:"cpu_burst_min"`
	CPUBurstMax int64 `yaml:"cpu_burst_max"`
	IOBurstMin  int64 `yaml:"io_burst_min"`
	IOBurstMax  int64 `yaml:"io_burst_max"`
}

// DefaultGeneratorSpec returns the classic five-process setup: priority 1–5,
// arrival 0–9, CPU burst 2–10, I/O burst 1–5.
func DefaultGeneratorSpec() GeneratorSpec {
	return GeneratorSpec{
		Count:       5,
		PriorityMin: 1,
		PriorityMax: 5,
		ArrivalMax:  9,
		CPUBurstMin: 2,
		CPUBurstMax: 10,
		IOBurstMin:  1,
		IOBurstMax:  5,
	}
}

// Validate checks that every range is non-empty and can host an I/O request.
func (g GeneratorSpec) Validate() error {
	if g.Count < 1 {
		return fmt.Errorf("count must be positive, got %d", g.Count)
	}
	if g.PriorityMin > g.PriorityMax {
		return fmt.Errorf("priority range [%d, %d] is empty", g.PriorityMin, g.PriorityMax)
	}
	if g.ArrivalMax < 0 {
		return fmt.Errorf("arrival_max must be non-negative, got %d", g.ArrivalMax)
	}
	if g.CPUBurstMin > g.CPUBurstMax {
		return fmt.Errorf("cpu burst range [%d, %d] is empty", g.CPUBurstMin, g.CPUBurstMax)
	}
	if g.IOBurstMin < 0 || g.IOBurstMin > g.IOBurstMax {
		return fmt.Errorf("io burst range [%d, %d] is invalid", g.IOBurstMin, g.IOBurstMax)
	}
	// an I/O request needs at least one tick on each side
	if g.IOBurstMax > 0 && g.CPUBurstMin < 2 {
		return fmt.Errorf("cpu_burst_min must be at least 2 when I/O is generated, got %d", g.CPUBurstMin)
	}
	if g.CPUBurstMin < 1 {
		return fmt.Errorf("cpu_burst_min must be at least 1, got %d", g.CPUBurstMin)
	}
	return nil
}

// Generate creates a process list from a GeneratorSpec.
// Deterministic given the same spec and seed. PIDs are 1..Count in draw order.
func Generate(spec GeneratorSpec, seed int64) ([]sim.ProcessSpec, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator spec: %w", err)
	}

	rng := sim.NewWorkloadRNG(seed)

	specs := make([]sim.ProcessSpec, spec.Count)
	for i := range specs {
		cpu := rng.Draw(sim.StreamCPUBurst, spec.CPUBurstMin, spec.CPUBurstMax)
		io := rng.Draw(sim.StreamIOBurst, spec.IOBurstMin, spec.IOBurstMax)
		p := sim.ProcessSpec{
			PID:         i + 1,
			Priority:    int(rng.Draw(sim.StreamPriority, int64(spec.PriorityMin), int64(spec.PriorityMax))),
			ArrivalTime: rng.Draw(sim.StreamArrival, 0, spec.ArrivalMax),
			CPUBurst:    cpu,
			IOBurst:     io,
		}
		if io > 0 {
			// request falls in [1, cpu-1]
			p.IORequestTime = rng.Draw(sim.StreamIORequest, 1, cpu-1)
		}
		specs[i] = p
	}
	return specs, nil
}
