package trace

// FitSummary aggregates per-target statistics out of a FitTrace.
type FitSummary struct {
	TotalIterations     int
	TargetsFit          int
	ConvergedTargets    int
	FinalLogLikByTarget map[string]float64
}

// Summarize computes aggregate statistics from a FitTrace. Safe for a nil
// trace (returns a zero-value summary).
func Summarize(ft *FitTrace) *FitSummary {
	summary := &FitSummary{FinalLogLikByTarget: make(map[string]float64)}
	if ft == nil {
		return summary
	}

	summary.TotalIterations = len(ft.Iterations)
	seen := make(map[string]bool)
	for _, rec := range ft.Iterations {
		if !seen[rec.Target] {
			seen[rec.Target] = true
			summary.TargetsFit++
		}
		summary.FinalLogLikByTarget[rec.Target] = rec.LogLik
	}
	for target := range seen {
		if lastConverged(ft, target) {
			summary.ConvergedTargets++
		}
	}
	return summary
}

func lastConverged(ft *FitTrace, target string) bool {
	converged := false
	for _, rec := range ft.Iterations {
		if rec.Target == target {
			converged = rec.Converged
		}
	}
	return converged
}

// ExtractionSummary aggregates statistics from an ExtractionTrace.
type ExtractionSummary struct {
	Candidates int
	Kept       int
}

// SummarizeExtraction computes aggregate statistics from an
// ExtractionTrace. Safe for a nil trace.
func SummarizeExtraction(et *ExtractionTrace) *ExtractionSummary {
	summary := &ExtractionSummary{}
	if et == nil {
		return summary
	}
	summary.Candidates = len(et.Edges)
	for _, e := range et.Edges {
		if e.Kept {
			summary.Kept++
		}
	}
	return summary
}
