package trace

import (
	"testing"
)

func TestSimulationTrace_Record_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions, Policy: "rr"})

	// WHEN a dispatch record is recorded
	st.Record(DecisionRecord{Clock: 4, PID: 2, Kind: DecisionDispatch, RunLength: 3})

	// THEN the trace contains one record with correct data
	if len(st.Decisions) != 1 {
		t.Fatalf("expected 1 decision, got %d", len(st.Decisions))
	}
	d := st.Decisions[0]
	if d.PID != 2 || d.Clock != 4 || d.RunLength != 3 {
		t.Errorf("unexpected record %+v", d)
	}
	if st.Config.Policy != "rr" {
		t.Errorf("expected policy rr, got %s", st.Config.Policy)
	}
}

func TestSimulationTrace_Record_NilTrace_NoPanic(t *testing.T) {
	// GIVEN a nil trace (tracing disabled)
	var st *SimulationTrace

	// WHEN a record is appended and queried
	st.Record(DecisionRecord{PID: 1, Kind: DecisionTerminate})

	// THEN nothing happens
	if got := st.ForPID(1); got != nil {
		t.Errorf("expected nil records from nil trace, got %v", got)
	}
}

func TestSimulationTrace_ForPID_PreservesOrder(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.Record(DecisionRecord{Clock: 0, PID: 1, Kind: DecisionDispatch})
	st.Record(DecisionRecord{Clock: 1, PID: 2, Kind: DecisionDispatch})
	st.Record(DecisionRecord{Clock: 3, PID: 1, Kind: DecisionIOBlock})
	st.Record(DecisionRecord{Clock: 6, PID: 1, Kind: DecisionIOComplete})

	got := st.ForPID(1)
	want := []DecisionKind{DecisionDispatch, DecisionIOBlock, DecisionIOComplete}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Errorf("record %d: got %s, want %s", i, got[i].Kind, k)
		}
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"", true},
		{"none", true},
		{"decisions", true},
		{"verbose", false},
		{"Decisions", false},
	}
	for _, tt := range tests {
		if got := IsValidTraceLevel(tt.level); got != tt.want {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
