package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions     int
	Dispatches         int
	Preemptions        int
	QuantumExpirations int
	IOBlocks           int
	IOCompletions      int
	Terminations       int
	StaleDiscards      int
	ContextSwitches    int         // dispatches of a PID other than the previously dispatched one
	DispatchesByPID    map[int]int // PID → number of times it was given the CPU
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DispatchesByPID: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Decisions)
	lastPID := 0
	for _, d := range st.Decisions {
		switch d.Kind {
		case DecisionDispatch:
			summary.Dispatches++
			summary.DispatchesByPID[d.PID]++
			if lastPID != 0 && d.PID != lastPID {
				summary.ContextSwitches++
			}
			lastPID = d.PID
		case DecisionPreempt:
			summary.Preemptions++
		case DecisionQuantumExpired:
			summary.QuantumExpirations++
		case DecisionIOBlock:
			summary.IOBlocks++
		case DecisionIOComplete:
			summary.IOCompletions++
		case DecisionTerminate:
			summary.Terminations++
		case DecisionStaleDiscard:
			summary.StaleDiscards++
		}
	}

	return summary
}
