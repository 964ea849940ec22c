package sim

import (
	"fmt"

	"github.com/inference-sim/cpusim/sim/trace"
)

// Defaults mirror the classic textbook setup the simulator was built around.
const (
	DefaultQuantum              int64 = 3
	DefaultInitialQueueCapacity       = 6

	// MaxHorizon caps simulated time; the timeline holds one slot per tick.
	MaxHorizon int64 = 1 << 22
)

// SimConfig groups the parameters of a single policy run.
type SimConfig struct {
	Quantum              int64            // Round Robin time slice in ticks (must be > 0)
	Horizon              int64            // latest admissible event time; 0 = MaxHorizon
	MaxEvents            int              // bound on pending events; 0 = unbounded
	InitialQueueCapacity int              // starting size of the ready and waiting queues
	TraceLevel           trace.TraceLevel // "" or "none" disables decision tracing
}

// DefaultSimConfig returns the configuration used when no flags or bundle override it.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Quantum:              DefaultQuantum,
		InitialQueueCapacity: DefaultInitialQueueCapacity,
		TraceLevel:           trace.TraceLevelNone,
	}
}

// Validate checks parameter ranges.
func (c SimConfig) Validate() error {
	if c.Quantum < 1 {
		return fmt.Errorf("quantum must be positive, got %d", c.Quantum)
	}
	if c.Horizon < 0 || c.Horizon > MaxHorizon {
		return fmt.Errorf("horizon must be in [0, %d], got %d", MaxHorizon, c.Horizon)
	}
	if c.MaxEvents < 0 {
		return fmt.Errorf("max events must be non-negative, got %d", c.MaxEvents)
	}
	if c.InitialQueueCapacity < 0 {
		return fmt.Errorf("initial queue capacity must be non-negative, got %d", c.InitialQueueCapacity)
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	return nil
}

// EffectiveHorizon is the latest admissible event time for a run.
func (c SimConfig) EffectiveHorizon() int64 {
	if c.Horizon > 0 {
		return c.Horizon
	}
	return MaxHorizon
}

func (c SimConfig) tracing() bool {
	return c.TraceLevel == trace.TraceLevelDecisions
}
