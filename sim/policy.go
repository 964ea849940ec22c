package sim

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownPolicy is returned by NewPolicy for unrecognized policy names.
var ErrUnknownPolicy = errors.New("unknown policy")

// Policy decides which ready process gets the CPU, whether the running process
// must give it up, and how long a dispatched process runs before its next
// CpuBurstComplete fires.
//
// SelectNext never mutates the queue; the simulator removes the chosen process.
// Ties are always broken by FIFO scan order.
type Policy interface {
	Name() string
	Description() string
	SelectNext(ready *ProcessQueue) *Process
	ShouldPreempt(running *Process, ready *ProcessQueue) bool
	NextRunLength(p *Process) int64
}

// runLength is the run shared by every policy: up to the pending I/O point,
// otherwise to completion. A run never spans both.
func runLength(p *Process) int64 {
	if p.HasPendingIO() {
		return p.UntilIO()
	}
	return p.RemainingCPU
}

// shortestRemaining returns the first ready process with minimal RemainingCPU.
func shortestRemaining(ready *ProcessQueue) *Process {
	var best *Process
	ready.Each(func(p *Process) bool {
		if best == nil || p.RemainingCPU < best.RemainingCPU {
			best = p
		}
		return true
	})
	return best
}

// highestPriority returns the first ready process with maximal Priority.
func highestPriority(ready *ProcessQueue) *Process {
	var best *Process
	ready.Each(func(p *Process) bool {
		if best == nil || p.Priority > best.Priority {
			best = p
		}
		return true
	})
	return best
}

// FCFSPolicy dispatches in ready-queue order and never preempts.
type FCFSPolicy struct{}

func (f *FCFSPolicy) Name() string        { return "fcfs" }
func (f *FCFSPolicy) Description() string { return "FCFS" }

func (f *FCFSPolicy) SelectNext(ready *ProcessQueue) *Process {
	return ready.Peek()
}

func (f *FCFSPolicy) ShouldPreempt(_ *Process, _ *ProcessQueue) bool {
	return false
}

func (f *FCFSPolicy) NextRunLength(p *Process) int64 {
	return runLength(p)
}

// SJFPolicy picks the ready process with the least remaining CPU time.
// The preemptive form hands the CPU to a strictly shorter ready process.
// Warning: SJF can starve long processes under sustained short arrivals.
type SJFPolicy struct {
	Preemptive bool
}

func (s *SJFPolicy) Name() string {
	if s.Preemptive {
		return "psjf"
	}
	return "sjf"
}

func (s *SJFPolicy) Description() string {
	if s.Preemptive {
		return "Preemptive SJF"
	}
	return "Non-Preemptive SJF"
}

func (s *SJFPolicy) SelectNext(ready *ProcessQueue) *Process {
	return shortestRemaining(ready)
}

func (s *SJFPolicy) ShouldPreempt(running *Process, ready *ProcessQueue) bool {
	if !s.Preemptive {
		return false
	}
	best := shortestRemaining(ready)
	return best != nil && best.RemainingCPU < running.RemainingCPU
}

func (s *SJFPolicy) NextRunLength(p *Process) int64 {
	return runLength(p)
}

// PriorityPolicy picks the ready process with the highest Priority value.
// The preemptive form hands the CPU to a strictly higher-priority ready process.
type PriorityPolicy struct {
	Preemptive bool
}

func (pp *PriorityPolicy) Name() string {
	if pp.Preemptive {
		return "ppriority"
	}
	return "priority"
}

func (pp *PriorityPolicy) Description() string {
	if pp.Preemptive {
		return "Preemptive Priority"
	}
	return "Non-Preemptive Priority"
}

func (pp *PriorityPolicy) SelectNext(ready *ProcessQueue) *Process {
	return highestPriority(ready)
}

func (pp *PriorityPolicy) ShouldPreempt(running *Process, ready *ProcessQueue) bool {
	if !pp.Preemptive {
		return false
	}
	best := highestPriority(ready)
	return best != nil && best.Priority > running.Priority
}

func (pp *PriorityPolicy) NextRunLength(p *Process) int64 {
	return runLength(p)
}

// RoundRobinPolicy dispatches in FIFO order for at most Quantum ticks.
// Quantum expiry is expressed through NextRunLength: the CpuBurstComplete fires
// at the end of the slice and the simulator returns the process to the tail.
type RoundRobinPolicy struct {
	Quantum int64
}

func (r *RoundRobinPolicy) Name() string { return "rr" }

func (r *RoundRobinPolicy) Description() string {
	return fmt.Sprintf("Round Robin (q=%d)", r.Quantum)
}

func (r *RoundRobinPolicy) SelectNext(ready *ProcessQueue) *Process {
	return ready.Peek()
}

func (r *RoundRobinPolicy) ShouldPreempt(_ *Process, _ *ProcessQueue) bool {
	return false
}

func (r *RoundRobinPolicy) NextRunLength(p *Process) int64 {
	return min(runLength(p), r.Quantum)
}

// ValidPolicies is the set of recognized policy names.
var ValidPolicies = map[string]bool{
	"fcfs":      true,
	"sjf":       true,
	"psjf":      true,
	"priority":  true,
	"ppriority": true,
	"rr":        true,
}

// PolicyNames lists every policy in canonical run order.
var PolicyNames = []string{"fcfs", "sjf", "psjf", "priority", "ppriority", "rr"}

// IsValidPolicy returns true if name is a recognized policy.
func IsValidPolicy(name string) bool {
	return ValidPolicies[name]
}

// SortedPolicyNames returns the recognized names in lexical order.
func SortedPolicyNames() []string {
	names := make([]string, 0, len(ValidPolicies))
	for n := range ValidPolicies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewPolicy creates a Policy by name.
// quantum is only consulted for "rr" and must be positive there.
func NewPolicy(name string, quantum int64) (Policy, error) {
	if !IsValidPolicy(name) {
		return nil, fmt.Errorf("%w %q; valid: %v", ErrUnknownPolicy, name, SortedPolicyNames())
	}
	switch name {
	case "fcfs":
		return &FCFSPolicy{}, nil
	case "sjf":
		return &SJFPolicy{}, nil
	case "psjf":
		return &SJFPolicy{Preemptive: true}, nil
	case "priority":
		return &PriorityPolicy{}, nil
	case "ppriority":
		return &PriorityPolicy{Preemptive: true}, nil
	case "rr":
		if quantum < 1 {
			return nil, fmt.Errorf("round robin quantum must be positive, got %d", quantum)
		}
		return &RoundRobinPolicy{Quantum: quantum}, nil
	default:
		panic(fmt.Sprintf("unhandled policy %q", name))
	}
}
