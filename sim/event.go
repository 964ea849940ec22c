package sim

import "fmt"

// EventKind identifies what happened at an event's timestamp.
type EventKind string

const (
	EventArrival          EventKind = "Arrival"
	EventCpuBurstComplete EventKind = "CpuBurstComplete"
	EventIoComplete       EventKind = "IoComplete"
)

// EventKindPriority defines ordering for simultaneous events.
// Lower values are processed first: arrivals join the ready queue before a process
// returning from I/O, and both before a process whose quantum expired at the same tick.
var EventKindPriority = map[EventKind]int{
	EventArrival:          1,
	EventIoComplete:       2,
	EventCpuBurstComplete: 3,
}

// Event is a timestamped state change for a single process.
// Events are created when scheduled and consumed exactly once when popped.
type Event struct {
	Time    int64     // Simulation time of the event (in ticks)
	Kind    EventKind // What happens at Time
	Process *Process  // The process the event refers to

	// Seq is the heap insertion sequence; the final tie-breaker.
	Seq uint64
	// Dispatch is the dispatch generation a CpuBurstComplete belongs to.
	// A CpuBurstComplete whose generation no longer matches the running
	// dispatch was superseded by a preemption and is stale.
	Dispatch uint64
}

func (e Event) String() string {
	return fmt.Sprintf("%s(P%d@%d)", e.Kind, e.Process.PID, e.Time)
}
