package sim

import "fmt"

// SlotKind classifies what the CPU did during one simulated tick.
type SlotKind string

const (
	SlotIdle            SlotKind = "idle"
	SlotRunning         SlotKind = "running"
	SlotRunningBeforeIO SlotKind = "running-before-io" // last tick before the process blocks for I/O
)

// Slot is the CPU occupancy of a single tick. PID is 0 when idle.
type Slot struct {
	Kind SlotKind
	PID  int
}

func (s Slot) String() string {
	switch s.Kind {
	case SlotRunning:
		return fmt.Sprintf("P%d", s.PID)
	case SlotRunningBeforeIO:
		return fmt.Sprintf("P%d(I/O)", s.PID)
	default:
		return "Idle"
	}
}

// Segment is a maximal run of ticks with the same occupant.
// Kind is SlotIdle or SlotRunning; BlocksForIO marks a segment whose last tick
// precedes an I/O block.
type Segment struct {
	PID         int
	Start       int64
	End         int64 // exclusive
	Kind        SlotKind
	BlocksForIO bool
}

// Timeline is the dense per-tick occupancy record of a run.
// Slots[t] describes tick [t, t+1).
type Timeline struct {
	Slots []Slot
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{Slots: make([]Slot, 0)}
}

// Len returns the number of recorded ticks.
func (tl *Timeline) Len() int64 {
	return int64(len(tl.Slots))
}

// Fill records occupancy for every tick in [from, to): running's PID, or idle when nil.
func (tl *Timeline) Fill(from, to int64, running *Process) {
	if from < tl.Len() {
		panic(fmt.Sprintf("Fill: tick %d already recorded (timeline length %d)", from, tl.Len()))
	}
	for t := tl.Len(); t < from; t++ {
		tl.Slots = append(tl.Slots, Slot{Kind: SlotIdle})
	}
	slot := Slot{Kind: SlotIdle}
	if running != nil {
		slot = Slot{Kind: SlotRunning, PID: running.PID}
	}
	for t := from; t < to; t++ {
		tl.Slots = append(tl.Slots, slot)
	}
}

// MarkIO tags tick t as the last tick pid runs before blocking for I/O.
func (tl *Timeline) MarkIO(t int64, pid int) {
	if t < 0 || t >= tl.Len() {
		return
	}
	if tl.Slots[t].PID != pid {
		panic(fmt.Sprintf("MarkIO: tick %d is held by P%d, not P%d", t, tl.Slots[t].PID, pid))
	}
	tl.Slots[t].Kind = SlotRunningBeforeIO
}

// At returns the occupancy of tick t; ticks past the end are idle.
func (tl *Timeline) At(t int64) Slot {
	if t < 0 || t >= tl.Len() {
		return Slot{Kind: SlotIdle}
	}
	return tl.Slots[t]
}

// BusyTicks counts ticks in which some process held the CPU.
func (tl *Timeline) BusyTicks() int64 {
	var n int64
	for _, s := range tl.Slots {
		if s.Kind != SlotIdle {
			n++
		}
	}
	return n
}

// IdleTicks counts ticks in which the CPU was idle.
func (tl *Timeline) IdleTicks() int64 {
	return tl.Len() - tl.BusyTicks()
}

// RunningTicks counts ticks held by pid.
func (tl *Timeline) RunningTicks(pid int) int64 {
	var n int64
	for _, s := range tl.Slots {
		if s.Kind != SlotIdle && s.PID == pid {
			n++
		}
	}
	return n
}

// Segments collapses the timeline into maximal same-occupant runs.
// A running-before-io tick closes its segment.
func (tl *Timeline) Segments() []Segment {
	var segs []Segment
	for t, s := range tl.Slots {
		kind := SlotRunning
		if s.Kind == SlotIdle {
			kind = SlotIdle
		}
		n := len(segs)
		if n > 0 && segs[n-1].Kind == kind && segs[n-1].PID == s.PID && !segs[n-1].BlocksForIO {
			segs[n-1].End = int64(t) + 1
		} else {
			segs = append(segs, Segment{PID: s.PID, Start: int64(t), End: int64(t) + 1, Kind: kind})
			n++
		}
		if s.Kind == SlotRunningBeforeIO {
			segs[n-1].BlocksForIO = true
		}
	}
	return segs
}
