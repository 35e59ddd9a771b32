package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	fs := Summarize(nil)
	if fs.TotalIterations != 0 || fs.TargetsFit != 0 || fs.ConvergedTargets != 0 {
		t.Errorf("expected zero-value summary, got %+v", fs)
	}
	if len(fs.FinalLogLikByTarget) != 0 {
		t.Error("expected empty FinalLogLikByTarget")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	ft := &FitTrace{}
	ft.Record("sleep", 0, -20.0, false)
	ft.Record("sleep", 1, -15.0, true)
	ft.Record("exercise", 0, -30.0, false)

	fs := Summarize(ft)
	if fs.TotalIterations != 3 {
		t.Errorf("expected 3 total iterations, got %d", fs.TotalIterations)
	}
	if fs.TargetsFit != 2 {
		t.Errorf("expected 2 targets fit, got %d", fs.TargetsFit)
	}
	if fs.ConvergedTargets != 1 {
		t.Errorf("expected 1 converged target, got %d", fs.ConvergedTargets)
	}
	if fs.FinalLogLikByTarget["sleep"] != -15.0 {
		t.Errorf("expected sleep's final log-lik -15.0, got %v", fs.FinalLogLikByTarget["sleep"])
	}
	if fs.FinalLogLikByTarget["exercise"] != -30.0 {
		t.Errorf("expected exercise's final log-lik -30.0, got %v", fs.FinalLogLikByTarget["exercise"])
	}
}

func TestSummarizeExtraction_NilTrace_ZeroValues(t *testing.T) {
	es := SummarizeExtraction(nil)
	if es.Candidates != 0 || es.Kept != 0 {
		t.Errorf("expected zero-value summary, got %+v", es)
	}
}

func TestSummarizeExtraction_PopulatedTrace_CorrectCounts(t *testing.T) {
	et := &ExtractionTrace{}
	et.Record("coffee", "exercise", 0.4, true)
	et.Record("coffee", "sleep", 0.02, false)
	et.Record("exercise", "sleep", 0.15, true)

	es := SummarizeExtraction(et)
	if es.Candidates != 3 {
		t.Errorf("expected 3 candidates, got %d", es.Candidates)
	}
	if es.Kept != 2 {
		t.Errorf("expected 2 kept, got %d", es.Kept)
	}
}
