// Defines the Process record that models a single unit of work in the simulation.
// Tracks the static workload descriptor plus the mutable execution counters that the
// engine updates as the process moves between the ready queue, the CPU and I/O.

package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidProcess is returned when a workload descriptor violates a process invariant.
var ErrInvalidProcess = errors.New("invalid process")

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	StateNew        ProcessState = "new"
	StateReady      ProcessState = "ready"
	StateRunning    ProcessState = "running"
	StateBlocked    ProcessState = "blocked"
	StateTerminated ProcessState = "terminated"
)

// ProcessSpec is the static workload descriptor supplied by the workload generator.
type ProcessSpec struct {
	PID           int   `yaml:"pid" json:"pid"`
	Priority      int   `yaml:"priority" json:"priority"` // higher = more favored
	ArrivalTime   int64 `yaml:"arrival" json:"arrival"`
	CPUBurst      int64 `yaml:"cpu_burst" json:"cpu_burst"`
	IOBurst       int64 `yaml:"io_burst" json:"io_burst"`     // 0 = the process never blocks
	IORequestTime int64 `yaml:"io_request" json:"io_request"` // offset into CPUBurst at which I/O is issued
}

// Validate checks the descriptor invariants.
// When IOBurst > 0 the I/O request must fall strictly inside the CPU burst.
func (s ProcessSpec) Validate() error {
	if s.PID <= 0 {
		return fmt.Errorf("%w: pid must be positive, got %d", ErrInvalidProcess, s.PID)
	}
	if s.ArrivalTime < 0 {
		return fmt.Errorf("%w: P%d arrival must be non-negative, got %d", ErrInvalidProcess, s.PID, s.ArrivalTime)
	}
	if s.CPUBurst < 1 {
		return fmt.Errorf("%w: P%d cpu_burst must be at least 1, got %d", ErrInvalidProcess, s.PID, s.CPUBurst)
	}
	if s.IOBurst < 0 {
		return fmt.Errorf("%w: P%d io_burst must be non-negative, got %d", ErrInvalidProcess, s.PID, s.IOBurst)
	}
	if s.IOBurst > 0 && (s.IORequestTime < 1 || s.IORequestTime > s.CPUBurst-1) {
		return fmt.Errorf("%w: P%d io_request must be in [1, %d], got %d",
			ErrInvalidProcess, s.PID, s.CPUBurst-1, s.IORequestTime)
	}
	return nil
}

// ValidateWorkload checks every descriptor and rejects duplicate PIDs.
func ValidateWorkload(specs []ProcessSpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("%w: workload is empty", ErrInvalidProcess)
	}
	seen := make(map[int]bool, len(specs))
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.PID] {
			return fmt.Errorf("%w: duplicate pid %d", ErrInvalidProcess, s.PID)
		}
		seen[s.PID] = true
	}
	return nil
}

// Process models a single process's lifecycle in the simulation.
type Process struct {
	ProcessSpec

	State ProcessState

	StartTime      int64 // first dispatch time; -1 until dispatched
	CompletionTime int64
	WaitingTime    int64 // derived in finalize
	TurnaroundTime int64 // derived in finalize

	RemainingCPU int64 // non-increasing, starts at CPUBurst
	RemainingIO  int64 // non-zero only while blocked
	ExecutedTime int64 // non-decreasing CPU time consumed
	IOServed     bool  // the single I/O interruption has completed
}

// NewProcess creates a fresh process record from its descriptor.
func NewProcess(spec ProcessSpec) *Process {
	return &Process{
		ProcessSpec:  spec,
		State:        StateNew,
		StartTime:    -1,
		RemainingCPU: spec.CPUBurst,
	}
}

// HasPendingIO reports whether the process still has to block for its I/O request.
func (p *Process) HasPendingIO() bool {
	return p.IOBurst > 0 && !p.IOServed
}

// UntilIO returns the CPU time left before the I/O request fires.
// Zero when no I/O is pending.
func (p *Process) UntilIO() int64 {
	if !p.HasPendingIO() {
		return 0
	}
	return p.IORequestTime - p.ExecutedTime
}

// AtIOPoint reports whether the process has just consumed exactly up to its I/O request.
func (p *Process) AtIOPoint() bool {
	return p.HasPendingIO() && p.ExecutedTime == p.IORequestTime
}

func (p *Process) IsTerminated() bool {
	return p.State == StateTerminated
}

// charge accounts for ticks of CPU time consumed since the last dispatch or charge.
func (p *Process) charge(ticks int64) {
	if ticks < 0 || ticks > p.RemainingCPU {
		panic(fmt.Sprintf("charge: P%d cannot consume %d ticks with %d remaining", p.PID, ticks, p.RemainingCPU))
	}
	p.ExecutedTime += ticks
	p.RemainingCPU -= ticks
}

// finalize derives turnaround and waiting times once the process has terminated.
func (p *Process) finalize() {
	p.TurnaroundTime = p.CompletionTime - p.ArrivalTime
	p.WaitingTime = p.TurnaroundTime - p.CPUBurst - p.IOBurst
}

// This method returns a human-readable string representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (PID: %d, State: %s, Remaining: %d, Executed: %d, Arrival: %d)",
		p.PID, p.State, p.RemainingCPU, p.ExecutedTime, p.ArrivalTime)
}
