// Package sim provides the core discrete-event CPU scheduling engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process lifecycle (new → ready → running → blocked → terminated)
//   - event.go, event_heap.go: Event kinds and their deterministic ordering
//   - simulator.go: The event loop, preemption check and dispatch
//
// # Architecture
//
// A Simulator is the run context for exactly one policy. It owns the process
// records, the ready and waiting ProcessQueues, the EventHeap and the Timeline;
// RunAll builds a fresh Simulator per policy so nothing leaks between runs.
// Simulated time jumps between event timestamps; the ticks in between are
// back-filled into the Timeline.
//
// Sub-packages:
//   - sim/workload/: workload files, CSV loading and seeded generation
//   - sim/trace/: decision trace recording
//
// # Key Interfaces
//
// Policy is the single extension point: SelectNext, ShouldPreempt and
// NextRunLength. FCFS, SJF, Priority (each preemptive or not) and Round Robin
// are implemented in policy.go.
package sim
