package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyQueue(procs ...*Process) *ProcessQueue {
	q := NewProcessQueue(len(procs))
	for _, p := range procs {
		q.Enqueue(p)
	}
	return q
}

func TestNewPolicy_AllNames(t *testing.T) {
	for _, name := range PolicyNames {
		t.Run(name, func(t *testing.T) {
			p, err := NewPolicy(name, 3)
			require.NoError(t, err)
			assert.Equal(t, name, p.Name())
			assert.NotEmpty(t, p.Description())
		})
	}
}

func TestNewPolicy_Unknown_ReturnsError(t *testing.T) {
	_, err := NewPolicy("lottery", 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPolicy))
}

func TestNewPolicy_RoundRobin_RequiresPositiveQuantum(t *testing.T) {
	_, err := NewPolicy("rr", 0)
	assert.Error(t, err)

	// quantum is ignored by the other policies
	_, err = NewPolicy("fcfs", 0)
	assert.NoError(t, err)
}

func TestPolicyNames_MatchValidPolicies(t *testing.T) {
	assert.Len(t, ValidPolicies, len(PolicyNames))
	for _, name := range PolicyNames {
		assert.True(t, IsValidPolicy(name), name)
	}
	assert.Equal(t, []string{"fcfs", "ppriority", "priority", "psjf", "rr", "sjf"}, SortedPolicyNames())
}

func TestFCFS_SelectsHead_NeverPreempts(t *testing.T) {
	// GIVEN a ready queue where the head is neither shortest nor highest priority
	long := NewProcess(ProcessSpec{PID: 1, CPUBurst: 9, Priority: 1})
	short := NewProcess(ProcessSpec{PID: 2, CPUBurst: 1, Priority: 9})
	q := readyQueue(long, short)
	policy := &FCFSPolicy{}

	// THEN FCFS picks the head and ignores better candidates
	assert.Same(t, long, policy.SelectNext(q))
	assert.False(t, policy.ShouldPreempt(long, readyQueue(short)))
	assert.Equal(t, 2, q.Len(), "SelectNext must not mutate the queue")
}

func TestSJF_SelectsShortestRemaining_FirstOnTie(t *testing.T) {
	// GIVEN remaining times [5, 2, 2]
	a := NewProcess(ProcessSpec{PID: 1, CPUBurst: 5})
	b := NewProcess(ProcessSpec{PID: 2, CPUBurst: 2})
	c := NewProcess(ProcessSpec{PID: 3, CPUBurst: 2})

	// THEN the first of the tied shortest is selected
	assert.Same(t, b, (&SJFPolicy{}).SelectNext(readyQueue(a, b, c)))
}

func TestSJF_ShouldPreempt(t *testing.T) {
	running := NewProcess(ProcessSpec{PID: 1, CPUBurst: 4})
	equal := NewProcess(ProcessSpec{PID: 2, CPUBurst: 4})
	shorter := NewProcess(ProcessSpec{PID: 3, CPUBurst: 3})

	tests := []struct {
		name       string
		preemptive bool
		ready      *ProcessQueue
		want       bool
	}{
		{"non-preemptive ignores shorter", false, readyQueue(shorter), false},
		{"preemptive on strictly shorter", true, readyQueue(shorter), true},
		{"preemptive ignores equal", true, readyQueue(equal), false},
		{"preemptive with empty queue", true, NewProcessQueue(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &SJFPolicy{Preemptive: tt.preemptive}
			assert.Equal(t, tt.want, p.ShouldPreempt(running, tt.ready))
		})
	}
}

func TestPriority_SelectsHighest_FirstOnTie(t *testing.T) {
	a := NewProcess(ProcessSpec{PID: 1, CPUBurst: 1, Priority: 2})
	b := NewProcess(ProcessSpec{PID: 2, CPUBurst: 1, Priority: 7})
	c := NewProcess(ProcessSpec{PID: 3, CPUBurst: 1, Priority: 7})

	assert.Same(t, b, (&PriorityPolicy{}).SelectNext(readyQueue(a, b, c)))
}

func TestPriority_ShouldPreempt(t *testing.T) {
	running := NewProcess(ProcessSpec{PID: 1, CPUBurst: 1, Priority: 3})
	equal := NewProcess(ProcessSpec{PID: 2, CPUBurst: 1, Priority: 3})
	higher := NewProcess(ProcessSpec{PID: 3, CPUBurst: 1, Priority: 4})

	assert.False(t, (&PriorityPolicy{}).ShouldPreempt(running, readyQueue(higher)))
	assert.True(t, (&PriorityPolicy{Preemptive: true}).ShouldPreempt(running, readyQueue(equal, higher)))
	assert.False(t, (&PriorityPolicy{Preemptive: true}).ShouldPreempt(running, readyQueue(equal)))
}

func TestNextRunLength_StopsAtIOPoint(t *testing.T) {
	// GIVEN a process with CPU 6 that issues I/O after 2 ticks
	p := NewProcess(ProcessSpec{PID: 1, CPUBurst: 6, IOBurst: 3, IORequestTime: 2})

	// THEN every policy runs it up to the I/O point first
	assert.Equal(t, int64(2), (&FCFSPolicy{}).NextRunLength(p))
	assert.Equal(t, int64(2), (&SJFPolicy{Preemptive: true}).NextRunLength(p))
	assert.Equal(t, int64(2), (&PriorityPolicy{}).NextRunLength(p))

	// WHEN the I/O has been served
	p.charge(2)
	p.IOServed = true

	// THEN the remainder runs to completion, capped by the quantum under RR
	assert.Equal(t, int64(4), (&FCFSPolicy{}).NextRunLength(p))
	assert.Equal(t, int64(3), (&RoundRobinPolicy{Quantum: 3}).NextRunLength(p))
	assert.Equal(t, int64(4), (&RoundRobinPolicy{Quantum: 10}).NextRunLength(p))
}

func TestNextRunLength_PartialProgressBeforeIO(t *testing.T) {
	// GIVEN a process preempted after one of the two ticks before its I/O request
	p := NewProcess(ProcessSpec{PID: 1, CPUBurst: 6, IOBurst: 3, IORequestTime: 2})
	p.charge(1)

	// THEN the next run covers only the remaining tick before I/O
	assert.Equal(t, int64(1), (&SJFPolicy{}).NextRunLength(p))
}

func TestRoundRobin_Description_IncludesQuantum(t *testing.T) {
	assert.Equal(t, "Round Robin (q=4)", (&RoundRobinPolicy{Quantum: 4}).Description())
}
