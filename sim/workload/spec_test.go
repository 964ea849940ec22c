package workload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cpusim/sim"
)

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workload.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWorkloadSpec_ExplicitProcesses_LoadsCorrectly(t *testing.T) {
	path := writeSpec(t, `
version: "1"
processes:
  - {pid: 1, priority: 3, arrival: 0, cpu_burst: 5, io_burst: 2, io_request: 2}
  - {pid: 2, priority: 1, arrival: 4, cpu_burst: 3}
`)
	spec, err := LoadWorkloadSpec(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	specs, err := spec.ProcessSpecs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 processes, got %d", len(specs))
	}
	want := sim.ProcessSpec{PID: 1, Priority: 3, ArrivalTime: 0, CPUBurst: 5, IOBurst: 2, IORequestTime: 2}
	if specs[0] != want {
		t.Errorf("process 0: got %+v, want %+v", specs[0], want)
	}
	if specs[1].IOBurst != 0 {
		t.Errorf("omitted io_burst should be 0, got %d", specs[1].IOBurst)
	}
}

func TestLoadWorkloadSpec_DefaultsVersion(t *testing.T) {
	path := writeSpec(t, "generator: {count: 2, priority_min: 1, priority_max: 1, arrival_max: 0, cpu_burst_min: 3, cpu_burst_max: 3, io_burst_min: 0, io_burst_max: 0}\n")
	spec, err := LoadWorkloadSpec(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Version != "1" {
		t.Errorf("expected version 1, got %q", spec.Version)
	}
}

func TestLoadWorkloadSpec_UnknownField_ReturnsError(t *testing.T) {
	path := writeSpec(t, `
processes:
  - {pid: 1, cpu_bursts: 5}
`)
	if _, err := LoadWorkloadSpec(path); err == nil {
		t.Fatal("expected error for typo'd field")
	}
}

func TestWorkloadSpec_Validate(t *testing.T) {
	gen := DefaultGeneratorSpec()
	tests := []struct {
		name    string
		spec    WorkloadSpec
		wantErr string
	}{
		{"neither source", WorkloadSpec{Version: "1"}, "needs a generator"},
		{"both sources", WorkloadSpec{Version: "1", Generator: &gen, Processes: []sim.ProcessSpec{{PID: 1, CPUBurst: 1}}}, "both"},
		{"bad version", WorkloadSpec{Version: "2", Generator: &gen}, "unsupported"},
		{"invalid process", WorkloadSpec{Version: "1", Processes: []sim.ProcessSpec{{PID: 1}}}, "cpu_burst"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWorkloadSpec_Generator_UsesSeed(t *testing.T) {
	gen := DefaultGeneratorSpec()
	a := WorkloadSpec{Version: "1", Seed: 11, Generator: &gen}
	b := WorkloadSpec{Version: "1", Seed: 11, Generator: &gen}

	sa, err := a.ProcessSpecs()
	if err != nil {
		t.Fatal(err)
	}
	sb, err := b.ProcessSpecs()
	if err != nil {
		t.Fatal(err)
	}
	for i := range sa {
		if sa[i] != sb[i] {
			t.Errorf("process %d differs: %+v vs %+v", i, sa[i], sb[i])
		}
	}
}

func TestWorkloadSpec_MarshalRoundTrip_KeepsProcesses(t *testing.T) {
	// GIVEN a generated workload written out the way `cpusim generate` does
	specs, err := Generate(DefaultGeneratorSpec(), 3)
	if err != nil {
		t.Fatal(err)
	}
	data, err := yaml.Marshal(&WorkloadSpec{Version: "1", Seed: 3, Processes: specs})
	if err != nil {
		t.Fatal(err)
	}

	// WHEN it is loaded back with strict decoding
	loaded, err := LoadWorkloadSpec(writeSpec(t, string(data)))
	if err != nil {
		t.Fatalf("generated file must load strictly: %v", err)
	}

	// THEN the explicit list replays identically
	got, err := loaded.ProcessSpecs()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(specs) {
		t.Fatalf("got %d processes, want %d", len(got), len(specs))
	}
	for i := range specs {
		if got[i] != specs[i] {
			t.Errorf("process %d: got %+v, want %+v", i, got[i], specs[i])
		}
	}
}

func TestWarnSharedArrivals_LogsInTickOrder(t *testing.T) {
	// GIVEN processes sharing three different arrival ticks, listed out of order
	specs := []sim.ProcessSpec{
		{PID: 1, ArrivalTime: 9, CPUBurst: 1},
		{PID: 2, ArrivalTime: 9, CPUBurst: 1},
		{PID: 3, ArrivalTime: 4, CPUBurst: 1},
		{PID: 4, ArrivalTime: 0, CPUBurst: 1},
		{PID: 5, ArrivalTime: 4, CPUBurst: 1},
		{PID: 6, ArrivalTime: 0, CPUBurst: 1},
		{PID: 7, ArrivalTime: 2, CPUBurst: 1},
	}
	prev := logrus.GetLevel()
	logrus.SetLevel(logrus.WarnLevel)
	defer logrus.SetLevel(prev)
	hook := test.NewGlobal()

	for run := 0; run < 20; run++ {
		hook.Reset()

		// WHEN the warnings are emitted
		warnSharedArrivals(specs)

		// THEN one warning per shared tick appears, always in ascending tick order
		want := []string{
			"processes [4 6] arrive together at tick 0; they are queued in file order",
			"processes [3 5] arrive together at tick 4; they are queued in file order",
			"processes [1 2] arrive together at tick 9; they are queued in file order",
		}
		entries := hook.AllEntries()
		if len(entries) != len(want) {
			t.Fatalf("run %d: got %d warnings, want %d", run, len(entries), len(want))
		}
		for i, e := range entries {
			if e.Message != want[i] {
				t.Errorf("run %d warning %d: got %q, want %q", run, i, e.Message, want[i])
			}
		}
	}
}
