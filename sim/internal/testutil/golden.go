// Package testutil provides shared test infrastructure for the cpusim engine.
// It holds the golden dataset types and assertion helpers used across the
// sim/ and cmd/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one hand-traced workload, simulated under one or more policies.
type GoldenTestCase struct {
	Name      string          `json:"name"`
	Quantum   int64           `json:"quantum"`
	Processes []GoldenProcess `json:"processes"`
	Runs      []GoldenRun     `json:"runs"`
}

// GoldenProcess mirrors the workload descriptor fields.
type GoldenProcess struct {
	PID           int   `json:"pid"`
	Priority      int   `json:"priority"`
	ArrivalTime   int64 `json:"arrival"`
	CPUBurst      int64 `json:"cpu_burst"`
	IOBurst       int64 `json:"io_burst"`
	IORequestTime int64 `json:"io_request"`
}

// GoldenRun holds the expected outcome of one policy over the test case workload.
type GoldenRun struct {
	Policy  string        `json:"policy"`
	Metrics GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected metrics from a golden run.
type GoldenMetrics struct {
	// Exact match values
	Timeline           []string      `json:"timeline"` // Slot.String() per tick
	CompletionTimes    map[int]int64 `json:"completion_times"`
	WaitingTimes       map[int]int64 `json:"waiting_times"`
	Makespan           int64         `json:"makespan"`
	IdleTicks          int64         `json:"idle_ticks"`
	Preemptions        int           `json:"preemptions"`
	QuantumExpirations int           `json:"quantum_expirations"`
	StaleEvents        int           `json:"stale_events"`

	// Derived averages
	AvgWaitingTime    float64 `json:"avg_waiting_time"`
	AvgTurnaroundTime float64 `json:"avg_turnaround_time"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
