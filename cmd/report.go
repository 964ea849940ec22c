package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	sim "github.com/inference-sim/cpusim/sim"
	"github.com/inference-sim/cpusim/sim/trace"
)

// ganttChunk is the number of ticks per line of the unit strip.
const ganttChunk = 20

func printProcessList(w io.Writer, specs []sim.ProcessSpec) {
	_, _ = fmt.Fprintln(w, "=== Process List ===")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PID", "Arrival", "CPU Burst", "I/O Burst", "I/O Request", "Priority"})
	for _, p := range specs {
		ioReq := "-"
		if p.IOBurst > 0 {
			ioReq = fmt.Sprint(p.IORequestTime)
		}
		table.Append([]string{
			fmt.Sprintf("P%d", p.PID),
			fmt.Sprint(p.ArrivalTime),
			fmt.Sprint(p.CPUBurst),
			fmt.Sprint(p.IOBurst),
			ioReq,
			fmt.Sprint(p.Priority),
		})
	}
	table.Render()
	_, _ = fmt.Fprintln(w)
}

// printResult renders one policy run: Gantt chart, per-process results and metrics.
func printResult(w io.Writer, r *sim.Result, gantt bool) {
	_, _ = fmt.Fprintf(w, "##### %s #####\n", r.Description)
	if gantt {
		printGantt(w, r.Timeline)
	}
	printProcessResults(w, r)
	r.Metrics.Print(w, r.Description)
	_, _ = fmt.Fprintln(w)
}

// printGantt shows the merged segments followed by the tick-by-tick strip.
func printGantt(w io.Writer, tl *sim.Timeline) {
	_, _ = fmt.Fprintln(w, "=== Gantt Chart ===")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Occupant", "Start", "End", "Ticks"})
	for _, seg := range tl.Segments() {
		table.Append([]string{
			segmentLabel(seg),
			fmt.Sprint(seg.Start),
			fmt.Sprint(seg.End),
			fmt.Sprint(seg.End - seg.Start),
		})
	}
	table.Render()
	for _, line := range ganttStrip(tl, ganttChunk) {
		_, _ = fmt.Fprintln(w, line)
	}
}

func segmentLabel(seg sim.Segment) string {
	if seg.Kind == sim.SlotIdle {
		return "Idle"
	}
	if seg.BlocksForIO {
		return fmt.Sprintf("P%d(I/O)", seg.PID)
	}
	return fmt.Sprintf("P%d", seg.PID)
}

// ganttStrip renders the timeline as rows of "t: occupant" cells, chunk ticks per row.
func ganttStrip(tl *sim.Timeline, chunk int) []string {
	var lines []string
	n := int(tl.Len())
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		cells := make([]string, 0, end-start)
		for t := start; t < end; t++ {
			cells = append(cells, tl.At(int64(t)).String())
		}
		lines = append(lines, fmt.Sprintf("%4d | %s |", start, strings.Join(cells, " | ")))
	}
	return lines
}

// printProcessResults lists completion, waiting and turnaround per process with
// the averages in the footer.
func printProcessResults(w io.Writer, r *sim.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PID", "Arrival", "Start", "Completion", "Waiting", "Turnaround"})
	for _, p := range r.Processes {
		table.Append([]string{
			fmt.Sprintf("P%d", p.PID),
			fmt.Sprint(p.ArrivalTime),
			fmt.Sprint(p.StartTime),
			fmt.Sprint(p.CompletionTime),
			fmt.Sprint(p.WaitingTime),
			fmt.Sprint(p.TurnaroundTime),
		})
	}
	table.SetFooter([]string{"", "", "", "Average",
		fmt.Sprintf("%.2f", r.Metrics.AvgWaitingTime),
		fmt.Sprintf("%.2f", r.Metrics.AvgTurnaroundTime),
	})
	table.Render()
}

// printComparison tabulates the headline metrics of every run and names the
// policy with the lowest average waiting time.
func printComparison(w io.Writer, results []*sim.Result) {
	_, _ = fmt.Fprintln(w, "=== Policy Comparison ===")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Policy", "Avg Waiting", "Avg Turnaround", "Avg Response", "Utilization", "Context Switches"})
	for _, r := range results {
		table.Append([]string{
			r.Description,
			fmt.Sprintf("%.2f", r.Metrics.AvgWaitingTime),
			fmt.Sprintf("%.2f", r.Metrics.AvgTurnaroundTime),
			fmt.Sprintf("%.2f", r.Metrics.AvgResponseTime),
			fmt.Sprintf("%.2f%%", r.Metrics.CPUUtilization*100),
			fmt.Sprint(r.Metrics.ContextSwitches),
		})
	}
	table.Render()
	if best := sim.Best(results); best != nil {
		_, _ = fmt.Fprintf(w, "Best policy by average waiting time: %s (%.2f)\n", best.Description, best.Metrics.AvgWaitingTime)
	}
}

func printTraceSummary(w io.Writer, r *sim.Result) {
	s := trace.Summarize(r.Trace)
	_, _ = fmt.Fprintf(w, "=== %s Trace Summary ===\n", r.Description)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Decision", "Count"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk([][]string{
		{"Total", fmt.Sprint(s.TotalDecisions)},
		{"Dispatches", fmt.Sprint(s.Dispatches)},
		{"Preemptions", fmt.Sprint(s.Preemptions)},
		{"Quantum Expirations", fmt.Sprint(s.QuantumExpirations)},
		{"I/O Blocks", fmt.Sprint(s.IOBlocks)},
		{"I/O Completions", fmt.Sprint(s.IOCompletions)},
		{"Terminations", fmt.Sprint(s.Terminations)},
		{"Stale Discards", fmt.Sprint(s.StaleDiscards)},
	})
	pids := make([]int, 0, len(s.DispatchesByPID))
	for pid := range s.DispatchesByPID {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	for _, pid := range pids {
		table.Append([]string{fmt.Sprintf("Dispatches P%d", pid), fmt.Sprint(s.DispatchesByPID[pid])})
	}
	table.Render()
	_, _ = fmt.Fprintln(w)
}

func printPolicies(w io.Writer, quantum int64) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Policy", "Preemptive"})
	for _, name := range sim.PolicyNames {
		p, err := sim.NewPolicy(name, quantum)
		if err != nil {
			_, _ = fmt.Fprintf(w, "%s: %v\n", name, err)
			continue
		}
		table.Append([]string{name, p.Description(), fmt.Sprint(isPreemptive(p))})
	}
	table.Render()
}

func isPreemptive(p sim.Policy) bool {
	switch v := p.(type) {
	case *sim.SJFPolicy:
		return v.Preemptive
	case *sim.PriorityPolicy:
		return v.Preemptive
	case *sim.RoundRobinPolicy:
		return true
	default:
		return false
	}
}
