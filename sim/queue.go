// Implements the ProcessQueue, the growable FIFO ring buffer used for both the
// ready queue and the waiting (I/O) queue.

package sim

import (
	"fmt"
	"strings"
)

// ProcessQueue is a circular FIFO of process references.
// Capacity doubles on overflow; RemoveSpecific takes a process out of the middle
// while preserving the order of everything behind it.
//
// Invariant: count is the number of slots walked from front to rear, and an
// empty queue always has front == rear == 0.
type ProcessQueue struct {
	items []*Process
	front int
	rear  int
	count int
}

// NewProcessQueue creates an empty queue with the given initial capacity (minimum 1).
func NewProcessQueue(initialCapacity int) *ProcessQueue {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	return &ProcessQueue{items: make([]*Process, initialCapacity)}
}

// Len returns the number of processes in the queue.
func (q *ProcessQueue) Len() int {
	return q.count
}

// Cap returns the current size of the backing store.
func (q *ProcessQueue) Cap() int {
	return len(q.items)
}

func (q *ProcessQueue) IsEmpty() bool {
	return q.count == 0
}

func (q *ProcessQueue) IsFull() bool {
	return q.count == len(q.items)
}

// expand doubles the backing store and re-flattens the ring so front is slot 0.
func (q *ProcessQueue) expand() {
	prev := len(q.items)
	grown := make([]*Process, prev*2)
	for i := 0; i < q.count; i++ {
		grown[i] = q.items[(q.front+i)%prev]
	}
	q.items = grown
	q.front = 0
	q.rear = q.count
}

// Enqueue adds a process to the back of the queue.
func (q *ProcessQueue) Enqueue(p *Process) {
	if p == nil {
		panic("Enqueue: process must not be nil")
	}
	if q.IsFull() {
		q.expand()
	}
	q.items[q.rear] = p
	q.rear = (q.rear + 1) % len(q.items)
	q.count++
}

// Dequeue removes the process at the front of the queue.
// The boolean is false when the queue is empty, which is a normal outcome.
func (q *ProcessQueue) Dequeue() (*Process, bool) {
	if q.IsEmpty() {
		return nil, false
	}
	p := q.items[q.front]
	q.items[q.front] = nil
	q.front = (q.front + 1) % len(q.items)
	q.count--
	if q.count == 0 {
		q.front, q.rear = 0, 0
	}
	return p, true
}

// Peek returns the process at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (q *ProcessQueue) Peek() *Process {
	if q.IsEmpty() {
		return nil
	}
	return q.items[q.front]
}

// RemoveSpecific removes the first slot holding p (pointer identity) and shifts
// every following slot one position toward the front.
// Returns false if p is not queued.
func (q *ProcessQueue) RemoveSpecific(p *Process) bool {
	n := len(q.items)
	target := -1
	for i, idx := 0, q.front; i < q.count; i, idx = i+1, (idx+1)%n {
		if q.items[idx] == p {
			target = idx
			break
		}
	}
	if target < 0 {
		return false
	}

	last := (q.rear - 1 + n) % n
	for idx := target; idx != last; {
		next := (idx + 1) % n
		q.items[idx] = q.items[next]
		idx = next
	}
	q.items[last] = nil
	q.rear = last
	q.count--
	if q.count == 0 {
		q.front, q.rear = 0, 0
	}
	return true
}

// Each calls fn for every queued process in FIFO order until fn returns false.
func (q *ProcessQueue) Each(fn func(*Process) bool) {
	n := len(q.items)
	for i, idx := 0, q.front; i < q.count; i, idx = i+1, (idx+1)%n {
		if !fn(q.items[idx]) {
			return
		}
	}
}

// Items returns a front-to-rear copy of the queue contents.
func (q *ProcessQueue) Items() []*Process {
	out := make([]*Process, 0, q.count)
	q.Each(func(p *Process) bool {
		out = append(out, p)
		return true
	})
	return out
}

func (q *ProcessQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	first := true
	q.Each(func(p *Process) bool {
		if !first {
			sb.WriteString(" ")
		}
		first = false
		sb.WriteString(fmt.Sprintf("P%d", p.PID))
		return true
	})
	sb.WriteString("]")
	return sb.String()
}
