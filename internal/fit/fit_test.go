package fit

import (
	"context"
	"math"
	"testing"

	"github.com/lifetracker/eventmodel/internal/coverage"
	"github.com/lifetracker/eventmodel/internal/eventlog"
	"github.com/lifetracker/eventmodel/internal/model"
	"github.com/lifetracker/eventmodel/internal/synth"
	"github.com/lifetracker/eventmodel/internal/window"
)

func buildStreamAndWindows(t *testing.T, events []eventlog.Event) (*eventlog.Stream, []window.Window) {
	t.Helper()
	times := make([]int64, len(events))
	for i, e := range events {
		times[i] = e.TimeMs
	}
	cov := coverage.Analyze(times)
	windows := window.FromPeriods(cov.Periods)
	stream := window.BuildEventStream(events, windows)
	return stream, windows
}

func selfExcitingCorpus(seed int64) []eventlog.Event {
	rng := synth.NewPartitionedRNG(synth.Key(seed))
	parents := synth.HomogeneousPoisson(rng.ForGenerator("A"), "A", 0.5, 1000)
	children := synth.SelfExcitingChildren(rng.ForGenerator("children"), parents, "B", 1.0)
	return append(append([]eventlog.Event{}, parents...), children...)
}

// TestFitTarget_LogLikelihoodMonotonicity verifies property 6: log-likelihood
// after iterating should exceed log-likelihood at the initial parameters.
func TestFitTarget_LogLikelihoodMonotonicity(t *testing.T) {
	events := selfExcitingCorpus(1)
	stream, windows := buildStreamAndWindows(t, events)

	opts := Options{NumBases: 6, MaxIter: 100, LearningRate: 0.01, Lambda1: 0.01, Lambda2: 0.001, QuadraturePoints: 50}
	targetB := indexOf(stream.TypeNames, "B")

	params := model.NewParams(stream.NumTypes(), opts.NumBases)
	counts := stream.CountByType()
	totalHours := float64(window.TotalObservedMs(windows)) / 3_600_000
	InitParamsFromData(params, counts, totalHours)

	initialLL, _ := model.EvalTarget(targetB, stream, windows, params, opts.Lambda1, opts.Lambda2, opts.QuadraturePoints)

	result := FitTarget(targetB, stream, windows, params, opts)

	if result.FinalLogLik <= initialLL {
		t.Errorf("expected fitted log-likelihood (%v) > initial (%v)", result.FinalLogLik, initialLL)
	}
}

// TestFitTarget_RegularizationZeroing verifies property 7: with a very large
// lambda1, all theta entries collapse toward 0.
func TestFitTarget_RegularizationZeroing(t *testing.T) {
	events := selfExcitingCorpus(2)
	stream, windows := buildStreamAndWindows(t, events)

	opts := Options{NumBases: 6, MaxIter: 150, LearningRate: 0.01, Lambda1: 50, Lambda2: 0.001, QuadraturePoints: 50}
	targetB := indexOf(stream.TypeNames, "B")

	params := model.NewParams(stream.NumTypes(), opts.NumBases)
	counts := stream.CountByType()
	totalHours := float64(window.TotalObservedMs(windows)) / 3_600_000
	InitParamsFromData(params, counts, totalHours)

	FitTarget(targetB, stream, windows, params, opts)

	for s := 0; s < stream.NumTypes(); s++ {
		if s == targetB {
			continue
		}
		for _, w := range params.Theta[targetB][s] {
			if math.Abs(w) >= 1e-6 {
				t.Errorf("expected theta collapsed under heavy L1, got %v", w)
			}
		}
	}
}

func TestFitAll_EligibilityAndCancellation(t *testing.T) {
	events := selfExcitingCorpus(3)
	stream, windows := buildStreamAndWindows(t, events)
	opts := Options{NumBases: 6, MaxIter: 50, LearningRate: 0.01, Lambda1: 0.01, Lambda2: 0.001, QuadraturePoints: 50}

	fm, err := FitAll(context.Background(), stream, windows, opts, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fm.Targets) == 0 {
		t.Fatal("expected at least one eligible target")
	}
	for k, r := range fm.Targets {
		if r.Iterations > opts.MaxIter {
			t.Errorf("target %d ran %d iterations, exceeding MaxIter %d", k, r.Iterations, opts.MaxIter)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FitAll(ctx, stream, windows, opts, nil); err == nil {
		t.Error("expected cancellation error from an already-cancelled context")
	}
}

func indexOf(names []string, target string) int {
	for i, n := range names {
		if n == target {
			return i
		}
	}
	return -1
}
