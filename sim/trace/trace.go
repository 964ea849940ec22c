package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every dispatch, preemption and state transition.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level  TraceLevel
	Policy string // policy name the trace belongs to
}

// SimulationTrace collects decision records during a single policy run.
type SimulationTrace struct {
	Config    TraceConfig
	Decisions []DecisionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:    config,
		Decisions: make([]DecisionRecord, 0),
	}
}

// Record appends a decision record. Safe on a nil trace.
func (st *SimulationTrace) Record(record DecisionRecord) {
	if st == nil {
		return
	}
	st.Decisions = append(st.Decisions, record)
}

// ForPID returns the records for a single process in recording order.
func (st *SimulationTrace) ForPID(pid int) []DecisionRecord {
	if st == nil {
		return nil
	}
	var out []DecisionRecord
	for _, d := range st.Decisions {
		if d.PID == pid {
			out = append(out, d)
		}
	}
	return out
}
