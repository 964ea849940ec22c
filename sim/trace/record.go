// Package trace provides decision-trace recording for scheduling-policy analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DecisionKind identifies the scheduling decision a record captures.
type DecisionKind string

const (
	DecisionDispatch       DecisionKind = "dispatch"
	DecisionPreempt        DecisionKind = "preempt"
	DecisionQuantumExpired DecisionKind = "quantum-expired"
	DecisionIOBlock        DecisionKind = "io-block"
	DecisionIOComplete     DecisionKind = "io-complete"
	DecisionTerminate      DecisionKind = "terminate"
	DecisionStaleDiscard   DecisionKind = "stale-discard"
)

// DecisionRecord captures a single scheduling decision.
type DecisionRecord struct {
	Clock     int64
	PID       int
	Kind      DecisionKind
	RunLength int64  // ticks granted on dispatch; 0 for other kinds
	Reason    string // e.g. "shorter job P3 ready (2 < 5)"
}
