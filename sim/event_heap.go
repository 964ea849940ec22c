package sim

import (
	"container/heap"
	"errors"
	"fmt"
)

// ErrEventCapacity is returned when scheduling an event would exceed the heap's bound.
var ErrEventCapacity = errors.New("event heap capacity exhausted")

// EventHeap implements a priority queue with deterministic ordering.
// Ordering: timestamp → kind priority → insertion sequence.
type EventHeap struct {
	events    []Event
	maxEvents int    // 0 = unbounded
	nextSeq   uint64 // sequence handed to the next scheduled event
}

// NewEventHeap creates a new event heap.
// A positive maxEvents bounds the number of pending events.
func NewEventHeap(maxEvents int) *EventHeap {
	h := &EventHeap{
		events:    make([]Event, 0),
		maxEvents: maxEvents,
	}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *EventHeap) Len() int {
	return len(h.events)
}

// Less implements heap.Interface with deterministic ordering
func (h *EventHeap) Less(i, j int) bool {
	ei, ej := h.events[i], h.events[j]

	// Primary: timestamp (lower first)
	if ei.Time != ej.Time {
		return ei.Time < ej.Time
	}

	// Secondary: kind priority (lower priority value = processed first)
	priI := EventKindPriority[ei.Kind]
	priJ := EventKindPriority[ej.Kind]
	if priI != priJ {
		return priI < priJ
	}

	// Tertiary: insertion sequence
	return ei.Seq < ej.Seq
}

// Swap implements heap.Interface
func (h *EventHeap) Swap(i, j int) {
	h.events[i], h.events[j] = h.events[j], h.events[i]
}

// Push implements heap.Interface
func (h *EventHeap) Push(x any) {
	h.events = append(h.events, x.(Event))
}

// Pop implements heap.Interface
func (h *EventHeap) Pop() any {
	old := h.events
	n := len(old)
	item := old[n-1]
	h.events = old[0 : n-1]
	return item
}

// Schedule adds an event to the heap and returns it with its sequence assigned.
func (h *EventHeap) Schedule(ev Event) (Event, error) {
	if h.maxEvents > 0 && len(h.events) >= h.maxEvents {
		return Event{}, fmt.Errorf("%w: cannot schedule %s with %d events pending", ErrEventCapacity, ev, len(h.events))
	}
	h.nextSeq++
	ev.Seq = h.nextSeq
	heap.Push(h, ev)
	return ev, nil
}

// PopNext removes and returns the next event.
func (h *EventHeap) PopNext() (Event, bool) {
	if h.Len() == 0 {
		return Event{}, false
	}
	return heap.Pop(h).(Event), true
}

// Peek returns the next event without removing it
func (h *EventHeap) Peek() (Event, bool) {
	if h.Len() == 0 {
		return Event{}, false
	}
	return h.events[0], true
}

// Scheduled returns the total number of events ever scheduled on this heap.
func (h *EventHeap) Scheduled() uint64 {
	return h.nextSeq
}
