// Package trace provides decision-trace recording for the fit/extraction
// pipeline's verbose CLI output. This package has no dependency on
// internal/model or internal/fit — it stores pure data types, recorded into
// by callers that do depend on them.
package trace

// IterationRecord captures one Adam iteration's log-likelihood while
// fitting a single target type.
type IterationRecord struct {
	Target    string
	Iteration int
	LogLik    float64
	Converged bool
}

// FitTrace accumulates IterationRecords across every target fit in one run.
type FitTrace struct {
	Iterations []IterationRecord
}

// Record appends one iteration's outcome. Safe to call on a nil *FitTrace
// (a no-op), so callers can pass a nil trace when verbose output isn't
// wanted without branching at every call site.
func (ft *FitTrace) Record(target string, iteration int, logLik float64, converged bool) {
	if ft == nil {
		return
	}
	ft.Iterations = append(ft.Iterations, IterationRecord{
		Target:    target,
		Iteration: iteration,
		LogLik:    logLik,
		Converged: converged,
	})
}

// EdgeExtractionRecord captures one candidate (src,tgt) pair considered
// during summarization, whether or not it cleared the minStrength
// threshold.
type EdgeExtractionRecord struct {
	Src, Tgt string
	L1Norm   float64
	Kept     bool
}

// ExtractionTrace accumulates EdgeExtractionRecords across one
// summarization pass.
type ExtractionTrace struct {
	Edges []EdgeExtractionRecord
}

// Record appends one candidate edge's outcome. Safe to call on a nil
// *ExtractionTrace.
func (et *ExtractionTrace) Record(src, tgt string, l1Norm float64, kept bool) {
	if et == nil {
		return
	}
	et.Edges = append(et.Edges, EdgeExtractionRecord{Src: src, Tgt: tgt, L1Norm: l1Norm, Kept: kept})
}
