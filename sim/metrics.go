// Tracks run-wide and per-process performance metrics such as:
// waiting time, turnaround time, response time and CPU utilization.

package sim

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Metrics aggregates statistics about a policy run for final reporting.
type Metrics struct {
	CompletedProcesses int   // Number of processes that terminated
	Makespan           int64 // Tick at which the last process terminated
	BusyTicks          int64 // Ticks in which some process held the CPU
	IdleTicks          int64 // Ticks in which the CPU was idle

	TotalWaitingTime    int64
	TotalTurnaroundTime int64
	AvgWaitingTime      float64
	AvgTurnaroundTime   float64
	AvgResponseTime     float64 // mean of (first dispatch - arrival)
	MaxWaitingTime      int64
	WaitingP90          float64
	TurnaroundP90       float64
	CPUUtilization      float64 // BusyTicks / Makespan
	Throughput          float64 // processes per tick

	Dispatches         int
	Preemptions        int
	QuantumExpirations int
	ContextSwitches    int
	StaleEvents        int
	EventsScheduled    uint64

	ProcessWaits       map[int]int64 // map of PID -> waiting time
	ProcessTurnarounds map[int]int64 // map of PID -> turnaround time
}

// NewMetrics creates an empty Metrics with initialized maps.
func NewMetrics() *Metrics {
	return &Metrics{
		ProcessWaits:       make(map[int]int64),
		ProcessTurnarounds: make(map[int]int64),
	}
}

// ComputeMetrics derives the run-wide metrics from finalized processes and the
// occupancy timeline. Event counters are filled in by the simulator.
func ComputeMetrics(procs []*Process, tl *Timeline) *Metrics {
	m := NewMetrics()
	m.Makespan = tl.Len()
	m.BusyTicks = tl.BusyTicks()
	m.IdleTicks = tl.IdleTicks()

	waits := make([]int64, 0, len(procs))
	turnarounds := make([]int64, 0, len(procs))
	responses := make([]int64, 0, len(procs))
	for _, p := range procs {
		if !p.IsTerminated() {
			continue
		}
		m.CompletedProcesses++
		m.TotalWaitingTime += p.WaitingTime
		m.TotalTurnaroundTime += p.TurnaroundTime
		m.MaxWaitingTime = max(m.MaxWaitingTime, p.WaitingTime)
		m.ProcessWaits[p.PID] = p.WaitingTime
		m.ProcessTurnarounds[p.PID] = p.TurnaroundTime
		waits = append(waits, p.WaitingTime)
		turnarounds = append(turnarounds, p.TurnaroundTime)
		responses = append(responses, p.StartTime-p.ArrivalTime)
	}

	m.AvgWaitingTime = CalculateMean(waits)
	m.AvgTurnaroundTime = CalculateMean(turnarounds)
	m.AvgResponseTime = CalculateMean(responses)
	m.WaitingP90 = CalculatePercentile(waits, 90)
	m.TurnaroundP90 = CalculatePercentile(turnarounds, 90)
	if m.Makespan > 0 {
		m.CPUUtilization = float64(m.BusyTicks) / float64(m.Makespan)
		m.Throughput = float64(m.CompletedProcesses) / float64(m.Makespan)
	}
	return m
}

// Print displays the aggregated metrics as a two-column table.
func (m *Metrics) Print(w io.Writer, title string) {
	_, _ = fmt.Fprintf(w, "=== %s Metrics ===\n", title)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk([][]string{
		{"Completed Processes", fmt.Sprint(m.CompletedProcesses)},
		{"Makespan", fmt.Sprintf("%d ticks", m.Makespan)},
		{"Average Waiting Time", fmt.Sprintf("%.2f ticks", m.AvgWaitingTime)},
		{"Average Turnaround Time", fmt.Sprintf("%.2f ticks", m.AvgTurnaroundTime)},
		{"Average Response Time", fmt.Sprintf("%.2f ticks", m.AvgResponseTime)},
		{"P90 Waiting Time", fmt.Sprintf("%.2f ticks", m.WaitingP90)},
		{"P90 Turnaround Time", fmt.Sprintf("%.2f ticks", m.TurnaroundP90)},
		{"CPU Utilization", fmt.Sprintf("%.2f%%", m.CPUUtilization*100)},
		{"Throughput", fmt.Sprintf("%.3f/tick", m.Throughput)},
		{"Context Switches", fmt.Sprint(m.ContextSwitches)},
		{"Preemptions", fmt.Sprint(m.Preemptions)},
		{"Quantum Expirations", fmt.Sprint(m.QuantumExpirations)},
	})
	table.Render()
}
