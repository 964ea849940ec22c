// sim/simulator.go
package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/cpusim/sim/trace"
)

var (
	// ErrHorizonExceeded is returned when an event falls past SimConfig.Horizon.
	ErrHorizonExceeded = errors.New("simulation horizon exceeded")
	// ErrStalled is returned when the event heap drains before every process terminates.
	ErrStalled = errors.New("simulation stalled")
)

// Simulator is the run context for a single policy: it owns the process records,
// both queues, the event heap and the occupancy timeline. Construct a fresh
// Simulator for every run; nothing is shared between runs.
type Simulator struct {
	Clock  int64
	Policy Policy
	Config SimConfig

	// ReadyQ holds processes waiting for the CPU, WaitingQ those blocked on I/O.
	ReadyQ   *ProcessQueue
	WaitingQ *ProcessQueue

	processes []*Process
	events    *EventHeap
	timeline  *Timeline
	metrics   *Metrics
	trace     *trace.SimulationTrace

	running       *Process
	dispatchGen   uint64 // generation of the current dispatch; see Event.Dispatch
	lastRunStart  int64  // when running was dispatched or last charged
	lastEventTime int64  // timeline is recorded up to here
	lastPID       int    // most recently dispatched PID, for context switches
	completed     int
	ran           bool

	dispatches         int
	preemptions        int
	quantumExpirations int
	contextSwitches    int
	staleDiscards      int
}

// NewSimulator validates the workload and builds fresh process records for one run.
func NewSimulator(specs []ProcessSpec, policy Policy, cfg SimConfig) (*Simulator, error) {
	if policy == nil {
		return nil, fmt.Errorf("policy must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := ValidateWorkload(specs); err != nil {
		return nil, err
	}
	if err := checkTimeBound(specs, cfg); err != nil {
		return nil, err
	}

	capacity := cfg.InitialQueueCapacity
	if capacity == 0 {
		capacity = len(specs) + 1
	}
	s := &Simulator{
		Policy:    policy,
		Config:    cfg,
		ReadyQ:    NewProcessQueue(capacity),
		WaitingQ:  NewProcessQueue(capacity),
		processes: make([]*Process, len(specs)),
		events:    NewEventHeap(cfg.MaxEvents),
		timeline:  NewTimeline(),
	}
	for i, spec := range specs {
		s.processes[i] = NewProcess(spec)
	}
	if cfg.tracing() {
		s.trace = trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.TraceLevel, Policy: policy.Name()})
	}
	return s, nil
}

// WorkloadBound is the latest tick at which the workload can finish under any
// policy: the last arrival plus every CPU and I/O burst. specs must be valid; the
// sum saturates at MaxInt64.
func WorkloadBound(specs []ProcessSpec) int64 {
	var last, work int64
	for _, s := range specs {
		last = max(last, s.ArrivalTime)
		work = addSat(work, addSat(s.CPUBurst, s.IOBurst))
	}
	return addSat(last, work)
}

func addSat(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// checkTimeBound rejects workloads that cannot fit in simulated time. Without an
// explicit horizon the whole workload must fit under MaxHorizon; with one, each
// field must, so event times never overflow and the run loop reports the overrun.
func checkTimeBound(specs []ProcessSpec, cfg SimConfig) error {
	if cfg.Horizon == 0 {
		if bound := WorkloadBound(specs); bound > MaxHorizon {
			return fmt.Errorf("%w: workload may run until tick %d, past the %d tick limit",
				ErrHorizonExceeded, bound, MaxHorizon)
		}
		return nil
	}
	for _, s := range specs {
		if max(s.ArrivalTime, s.CPUBurst, s.IOBurst) > MaxHorizon {
			return fmt.Errorf("%w: P%d times exceed the %d tick limit", ErrHorizonExceeded, s.PID, MaxHorizon)
		}
	}
	return nil
}

// Processes returns the process records in workload order.
func (sim *Simulator) Processes() []*Process {
	return sim.processes
}

// Timeline returns the occupancy record built so far.
func (sim *Simulator) Timeline() *Timeline {
	return sim.timeline
}

// Metrics returns the run metrics; nil until Run succeeds.
func (sim *Simulator) Metrics() *Metrics {
	return sim.metrics
}

// Trace returns the decision trace; nil unless decision tracing is enabled.
func (sim *Simulator) Trace() *trace.SimulationTrace {
	return sim.trace
}

// Running returns the process holding the CPU, or nil.
func (sim *Simulator) Running() *Process {
	return sim.running
}

// Schedule pushes an event into the heap, tagging CpuBurstComplete events with the
// current dispatch generation.
func (sim *Simulator) Schedule(time int64, kind EventKind, p *Process) error {
	ev := Event{Time: time, Kind: kind, Process: p}
	if kind == EventCpuBurstComplete {
		ev.Dispatch = sim.dispatchGen
	}
	if _, err := sim.events.Schedule(ev); err != nil {
		return fmt.Errorf("policy %s at tick %d: %w", sim.Policy.Name(), sim.Clock, err)
	}
	return nil
}

// Run drains the event heap until every process has terminated.
func (sim *Simulator) Run() error {
	if sim.ran {
		return fmt.Errorf("simulator for policy %s already ran", sim.Policy.Name())
	}
	sim.ran = true
	logrus.Infof("Starting %s with %d processes", sim.Policy.Description(), len(sim.processes))

	for _, p := range sim.processes {
		if err := sim.Schedule(p.ArrivalTime, EventArrival, p); err != nil {
			return err
		}
	}

	for sim.completed < len(sim.processes) {
		ev, ok := sim.events.PopNext()
		if !ok {
			return fmt.Errorf("%w: %d of %d processes unfinished at tick %d",
				ErrStalled, len(sim.processes)-sim.completed, len(sim.processes), sim.Clock)
		}
		if horizon := sim.Config.EffectiveHorizon(); ev.Time > horizon {
			return fmt.Errorf("%w: %s scheduled past horizon %d", ErrHorizonExceeded, ev, horizon)
		}

		// advance the clock, back-filling occupancy for the skipped ticks
		now := ev.Time
		sim.timeline.Fill(sim.lastEventTime, now, sim.running)
		sim.lastEventTime = now
		sim.Clock = now

		// apply every event sharing this timestamp
		for {
			if err := sim.handle(ev); err != nil {
				return err
			}
			next, ok := sim.events.Peek()
			if !ok || next.Time != now {
				break
			}
			ev, _ = sim.events.PopNext()
		}

		sim.checkPreemption(now)
		if err := sim.dispatch(now); err != nil {
			return err
		}
	}

	for _, p := range sim.processes {
		p.finalize()
	}
	sim.metrics = ComputeMetrics(sim.processes, sim.timeline)
	sim.metrics.Dispatches = sim.dispatches
	sim.metrics.Preemptions = sim.preemptions
	sim.metrics.QuantumExpirations = sim.quantumExpirations
	sim.metrics.ContextSwitches = sim.contextSwitches
	sim.metrics.StaleEvents = sim.staleDiscards
	sim.metrics.EventsScheduled = sim.events.Scheduled()

	logrus.Infof("[tick %05d] %s ended", sim.Clock, sim.Policy.Description())
	return nil
}

func (sim *Simulator) handle(ev Event) error {
	logrus.Debugf("[tick %05d] Executing %s", ev.Time, ev)
	switch ev.Kind {
	case EventArrival:
		sim.onArrival(ev)
	case EventCpuBurstComplete:
		return sim.onCpuBurstComplete(ev)
	case EventIoComplete:
		return sim.onIoComplete(ev)
	default:
		panic(fmt.Sprintf("unhandled event kind %q", ev.Kind))
	}
	return nil
}

func (sim *Simulator) onArrival(ev Event) {
	p := ev.Process
	p.State = StateReady
	sim.ReadyQ.Enqueue(p)
}

func (sim *Simulator) onCpuBurstComplete(ev Event) error {
	p := ev.Process
	if p != sim.running || ev.Dispatch != sim.dispatchGen {
		// superseded by a preemption
		sim.staleDiscards++
		logrus.Debugf("[tick %05d] Discarding stale %s", ev.Time, ev)
		sim.record(ev.Time, p, trace.DecisionStaleDiscard, 0, "")
		return nil
	}

	now := ev.Time
	p.charge(now - sim.lastRunStart)
	sim.lastRunStart = now
	sim.running = nil

	switch {
	case p.AtIOPoint():
		p.State = StateBlocked
		p.RemainingIO = p.IOBurst
		sim.WaitingQ.Enqueue(p)
		sim.timeline.MarkIO(now-1, p.PID)
		sim.record(now, p, trace.DecisionIOBlock, 0, fmt.Sprintf("blocks for %d ticks", p.IOBurst))
		return sim.Schedule(now+p.RemainingIO, EventIoComplete, p)
	case p.RemainingCPU == 0:
		p.State = StateTerminated
		p.CompletionTime = now
		sim.completed++
		sim.record(now, p, trace.DecisionTerminate, 0, "")
		logrus.Debugf("[tick %05d] P%d terminated", now, p.PID)
	default:
		p.State = StateReady
		sim.ReadyQ.Enqueue(p)
		sim.quantumExpirations++
		sim.record(now, p, trace.DecisionQuantumExpired, 0, fmt.Sprintf("%d ticks remaining", p.RemainingCPU))
	}
	return nil
}

func (sim *Simulator) onIoComplete(ev Event) error {
	p := ev.Process
	if !sim.WaitingQ.RemoveSpecific(p) {
		return fmt.Errorf("policy %s at tick %d: P%d completed I/O but was not in the waiting queue",
			sim.Policy.Name(), ev.Time, p.PID)
	}
	p.RemainingIO = 0
	p.IOServed = true
	p.State = StateReady
	sim.ReadyQ.Enqueue(p)
	sim.record(ev.Time, p, trace.DecisionIOComplete, 0, "")
	return nil
}

// checkPreemption charges the running process for the slice it has consumed so far
// and returns it to the ready queue if the policy prefers a ready process.
func (sim *Simulator) checkPreemption(now int64) {
	running := sim.running
	if running == nil || sim.ReadyQ.IsEmpty() {
		return
	}
	running.charge(now - sim.lastRunStart)
	sim.lastRunStart = now

	if !sim.Policy.ShouldPreempt(running, sim.ReadyQ) {
		return
	}
	logrus.Debugf("[tick %05d] P%d preempted with %d ticks remaining", now, running.PID, running.RemainingCPU)
	sim.preemptions++
	sim.record(now, running, trace.DecisionPreempt, 0, fmt.Sprintf("ready queue %s", sim.ReadyQ))
	running.State = StateReady
	sim.ReadyQ.Enqueue(running)
	sim.running = nil
}

// dispatch hands a free CPU to the process the policy selects.
func (sim *Simulator) dispatch(now int64) error {
	if sim.running != nil || sim.ReadyQ.IsEmpty() {
		return nil
	}
	p := sim.Policy.SelectNext(sim.ReadyQ)
	if p == sim.ReadyQ.Peek() {
		sim.ReadyQ.Dequeue()
	} else if !sim.ReadyQ.RemoveSpecific(p) {
		panic(fmt.Sprintf("dispatch: %s selected P%d which is not ready", sim.Policy.Name(), p.PID))
	}

	run := sim.Policy.NextRunLength(p)
	if run <= 0 {
		panic(fmt.Sprintf("dispatch: %s computed run length %d for %s", sim.Policy.Name(), run, p))
	}
	if p.StartTime < 0 {
		p.StartTime = now
	}

	sim.dispatchGen++
	sim.dispatches++
	if sim.lastPID != 0 && sim.lastPID != p.PID {
		sim.contextSwitches++
	}
	sim.lastPID = p.PID
	sim.running = p
	sim.lastRunStart = now
	p.State = StateRunning

	logrus.Debugf("[tick %05d] Dispatching P%d for %d ticks", now, p.PID, run)
	sim.record(now, p, trace.DecisionDispatch, run, "")
	return sim.Schedule(now+run, EventCpuBurstComplete, p)
}

func (sim *Simulator) record(clock int64, p *Process, kind trace.DecisionKind, run int64, reason string) {
	if sim.trace == nil {
		return
	}
	sim.trace.Record(trace.DecisionRecord{Clock: clock, PID: p.PID, Kind: kind, RunLength: run, Reason: reason})
}
