package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/inference-sim/cpusim/sim"
)

func fcfsSingleIO(t *testing.T) *sim.Result {
	t.Helper()
	specs := []sim.ProcessSpec{{PID: 1, Priority: 1, CPUBurst: 5, IOBurst: 2, IORequestTime: 2}}
	r, err := sim.RunPolicy(specs, "fcfs", sim.DefaultSimConfig())
	require.NoError(t, err)
	return r
}

func TestGanttStrip_ChunksTicks(t *testing.T) {
	// GIVEN the 7-tick timeline of a process that blocks for I/O after 2 ticks
	r := fcfsSingleIO(t)

	// WHEN rendered four ticks per line
	got := ganttStrip(r.Timeline, 4)

	// THEN each line starts with its first tick and lists occupants in order
	want := []string{
		"   0 | P1 | P1(I/O) | Idle | Idle |",
		"   4 | P1 | P1 | P1 |",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ganttStrip mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintGantt_ListsSegments(t *testing.T) {
	var buf bytes.Buffer
	printGantt(&buf, fcfsSingleIO(t).Timeline)
	out := buf.String()

	assert.Contains(t, out, "=== Gantt Chart ===")
	assert.Contains(t, out, "P1(I/O)")
	assert.Contains(t, out, "Idle")
	assert.Contains(t, out, "OCCUPANT")
}

func TestPrintResult_IncludesAveragesFooter(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, fcfsSingleIO(t), false)
	out := buf.String()

	assert.Contains(t, out, "##### FCFS #####")
	assert.NotContains(t, out, "Gantt Chart")
	assert.Contains(t, strings.ToUpper(out), "AVERAGE")
	assert.Contains(t, out, "7.00")
	assert.Contains(t, out, "=== FCFS Metrics ===")
}

func TestPrintComparison_NamesBestPolicy(t *testing.T) {
	// GIVEN the short-job-second pair run under FCFS and preemptive SJF
	specs := []sim.ProcessSpec{
		{PID: 1, ArrivalTime: 0, CPUBurst: 4},
		{PID: 2, ArrivalTime: 1, CPUBurst: 2},
	}
	results, err := sim.RunAll(specs, []string{"fcfs", "psjf"}, sim.DefaultSimConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	printComparison(&buf, results)

	// THEN preemptive SJF wins on average waiting time
	out := buf.String()
	assert.Contains(t, out, "=== Policy Comparison ===")
	assert.Contains(t, out, "Best policy by average waiting time: Preemptive SJF (1.00)")
}

func TestPrintProcessList_MarksProcessesWithoutIO(t *testing.T) {
	var buf bytes.Buffer
	printProcessList(&buf, []sim.ProcessSpec{
		{PID: 1, Priority: 2, CPUBurst: 5, IOBurst: 2, IORequestTime: 3},
		{PID: 2, Priority: 1, ArrivalTime: 4, CPUBurst: 3},
	})
	lines := strings.Split(buf.String(), "\n")

	var p2 string
	for _, l := range lines {
		if strings.Contains(l, "| P2 ") {
			p2 = l
		}
	}
	require.NotEmpty(t, p2)
	assert.Contains(t, p2, "-")
}

func TestPrintPolicies_ListsEveryPolicy(t *testing.T) {
	var buf bytes.Buffer
	printPolicies(&buf, 4)
	out := buf.String()

	for _, name := range sim.PolicyNames {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Round Robin (q=4)")
	assert.Contains(t, out, "Non-Preemptive Priority")
}

func TestPrintTraceSummary(t *testing.T) {
	specs := []sim.ProcessSpec{
		{PID: 1, ArrivalTime: 0, CPUBurst: 4},
		{PID: 2, ArrivalTime: 1, CPUBurst: 2},
	}
	cfg := sim.DefaultSimConfig()
	cfg.TraceLevel = "decisions"
	r, err := sim.RunPolicy(specs, "psjf", cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	printTraceSummary(&buf, r)
	out := buf.String()

	assert.Contains(t, out, "Preemptive SJF Trace Summary")
	assert.Contains(t, out, "Stale Discards")
	assert.Contains(t, out, "Dispatches P2")
}

func TestIsPreemptive(t *testing.T) {
	want := map[string]bool{
		"fcfs": false, "sjf": false, "psjf": true,
		"priority": false, "ppriority": true, "rr": true,
	}
	for name, preemptive := range want {
		p, err := sim.NewPolicy(name, 3)
		require.NoError(t, err)
		assert.Equal(t, preemptive, isPreemptive(p), name)
	}
}
