package diagnostics

import (
	"context"
	"math"
	"testing"

	"github.com/lifetracker/eventmodel/internal/coverage"
	"github.com/lifetracker/eventmodel/internal/eventlog"
	"github.com/lifetracker/eventmodel/internal/fit"
	"github.com/lifetracker/eventmodel/internal/model"
	"github.com/lifetracker/eventmodel/internal/synth"
	"github.com/lifetracker/eventmodel/internal/window"
)

func fitCorpus(t *testing.T, events []eventlog.Event) (*fit.FullModelFit, *eventlog.Stream, []window.Window) {
	t.Helper()
	times := make([]int64, len(events))
	for i, e := range events {
		times[i] = e.TimeMs
	}
	cov := coverage.Analyze(times)
	windows := window.FromPeriods(cov.Periods)
	stream := window.BuildEventStream(events, windows)

	opts := fit.Options{NumBases: 6, MaxIter: 150, LearningRate: 0.01, Lambda1: 0.01, Lambda2: 0.001, QuadraturePoints: 50}
	fm, err := fit.FitAll(context.Background(), stream, windows, opts, nil)
	if err != nil {
		t.Fatalf("FitAll: %v", err)
	}
	return fm, stream, windows
}

func selfExcitingCorpus(seed int64) []eventlog.Event {
	rng := synth.NewPartitionedRNG(synth.Key(seed))
	parents := synth.HomogeneousPoisson(rng.ForGenerator("A"), "A", 0.5, 2000)
	children := synth.SelfExcitingChildren(rng.ForGenerator("children"), parents, "B", 1.0)
	return append(append([]eventlog.Event{}, parents...), children...)
}

// TestAnalyze_KSStatisticInUnitRange verifies the universal bound: a KS
// statistic is always in [0,1].
func TestAnalyze_KSStatisticInUnitRange(t *testing.T) {
	events := selfExcitingCorpus(21)
	fm, stream, windows := fitCorpus(t, events)

	results := Analyze(fm, stream, windows)
	if len(results) == 0 {
		t.Fatal("expected at least one diagnostic result")
	}
	for k, result := range fm.Targets {
		_ = result
		r := findResult(results, fm.TypeNames[k])
		if r.KSStatistic < 0 || r.KSStatistic > 1 {
			t.Errorf("%s: KS statistic %v out of [0,1]", r.TypeName, r.KSStatistic)
		}
		n := len(model.InterEventIntegrals(k, stream, windows, fm.Params, QuadraturePoints))
		wantPass := n > 0 && r.KSStatistic < ksCriticalCoeff/math.Sqrt(float64(n))
		if r.KSPassesAt05 != wantPass {
			t.Errorf("%s: pass flag %v inconsistent with recomputed threshold", r.TypeName, r.KSPassesAt05)
		}
	}
}

func findResult(results []Result, typeName string) Result {
	for _, r := range results {
		if r.TypeName == typeName {
			return r
		}
	}
	return Result{}
}

// TestEvaluate_EmptySampleFailsMaximally matches spec §4.8's fallback for a
// target with no inter-event interval to rescale.
func TestEvaluate_EmptySampleFailsMaximally(t *testing.T) {
	r := evaluate("X", nil)
	if r.KSStatistic != 1 || r.KSPassesAt05 {
		t.Errorf("expected KS=1, pass=false for an empty sample, got %+v", r)
	}
}

// TestKSStatistic_PerfectExponentialSampleIsSmall sanity-checks the
// statistic against a hand-built, near-uniform-in-CDF-space sample.
func TestKSStatistic_PerfectExponentialSampleIsSmall(t *testing.T) {
	n := 1000
	sample := make([]float64, n)
	for i := 0; i < n; i++ {
		u := (float64(i) + 0.5) / float64(n)
		sample[i] = -math.Log(1 - u)
	}
	d := ksStatistic(sample)
	if d > 0.05 {
		t.Errorf("expected small KS statistic for a near-exact Exp(1) sample, got %v", d)
	}
}

