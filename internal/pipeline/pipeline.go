// Package pipeline orchestrates the end-to-end analysis: coverage
// segmentation, observation-window/event-stream construction, per-target
// GLM fitting, edge/baseline extraction, and KS diagnostics (spec §4.9),
// emitting a progress stream and a single terminal Result or error.
package pipeline

import (
	"context"
	"errors"
	"sort"

	"github.com/lifetracker/eventmodel/config"
	"github.com/lifetracker/eventmodel/internal/coverage"
	"github.com/lifetracker/eventmodel/internal/diagnostics"
	"github.com/lifetracker/eventmodel/internal/eventlog"
	"github.com/lifetracker/eventmodel/internal/fit"
	"github.com/lifetracker/eventmodel/internal/summary"
	"github.com/lifetracker/eventmodel/internal/trace"
	"github.com/lifetracker/eventmodel/internal/window"
)

// Stage names the pipeline's state machine states (spec §4.9).
type Stage string

const (
	StageIdle      Stage = "idle"
	StageCoverage  Stage = "coverage"
	StageStream    Stage = "stream"
	StageFit       Stage = "fit"
	StageSummarize Stage = "summarize"
	StageDiagnose  Stage = "diagnose"
	StageDone      Stage = "done"
	StageAborted   Stage = "aborted"
	StageError     Stage = "error"
)

// Eligibility thresholds (spec §6): below these, the model is not fitted
// and the pipeline moves straight to the Aborted terminal state.
const (
	minUsableEvents  = 50
	minDistinctTypes = 2
)

// likelihoodQuadraturePoints is LG's per-window quadrature point count
// (spec §4.5: "Q = 50 points per window").
const likelihoodQuadraturePoints = 50

// ProgressEvent is one message on the pipeline's progress stream (spec §6).
type ProgressEvent struct {
	Stage   Stage  `json:"stage"`
	Percent int    `json:"percent"`
	Detail  string `json:"detail,omitempty"`
}

// InsightKind tags what kind of observation an Insight summarizes.
type InsightKind string

const (
	InsightInfluence    InsightKind = "influence"
	InsightRhythm       InsightKind = "rhythm"
	InsightCoOccurrence InsightKind = "co-occurrence"
)

// coOccurrenceMassTimeMs is the 50%-mass-time threshold below which an edge
// is classified as a co-occurrence rather than a directional influence
// (spec §9 Open Question (b)).
const coOccurrenceMassTimeMs = 15 * 60 * 1000

// Insight is a derived, human-readable summary of one influence edge or
// rhythm baseline, ranked into Result.Insights up to config.Options.MaxInsights.
type Insight struct {
	Kind InsightKind `json:"kind"`
	Text string      `json:"text"`
}

// Result is the pipeline's owned, serializable output (spec §6).
type Result struct {
	Coverage           coverage.Result      `json:"coverage"`
	TotalObservedHours float64              `json:"totalObservedHours"`
	NumEvents          int                  `json:"numEvents"`
	NumTypes           int                  `json:"numTypes"`
	ModelFitted        bool                 `json:"modelFitted"`
	Edges              []summary.Edge       `json:"edges"`
	Baselines          []summary.Baseline   `json:"baselines"`
	Diagnostics        []diagnostics.Result `json:"diagnostics"`
	Insights           []Insight            `json:"insights"`
}

// ErrCancelled is returned by Run when ctx was cancelled before or during
// the analysis. Per spec §5, cancellation is quiet: callers should discard
// any partial state and emit no error message to the user.
var ErrCancelled = errors.New("pipeline: cancelled")

// Run executes the full Coverage -> Stream -> (Abort?) -> Fit -> Summarize
// -> Diagnose -> Done state machine once, synchronously, emitting
// ProgressEvents to progressCh as it advances (progressCh may be nil). The
// caller runs Run on its own goroutine if it wants to consume progress
// concurrently with other work; Run itself performs no goroutine
// management (spec §5: the core is single-threaded cooperative).
func Run(ctx context.Context, events []eventlog.Event, opts config.Options, progressCh chan<- ProgressEvent) (*Result, error) {
	return RunTraced(ctx, events, opts, progressCh, nil, nil)
}

// RunTraced behaves like Run, additionally recording fit and extraction
// traces into ft/et (either may be nil) for CLI --verbose output.
func RunTraced(ctx context.Context, events []eventlog.Event, opts config.Options, progressCh chan<- ProgressEvent, ft *trace.FitTrace, et *trace.ExtractionTrace) (*Result, error) {
	emit := func(stage Stage, percent int, detail string) {
		if progressCh == nil {
			return
		}
		select {
		case progressCh <- ProgressEvent{Stage: stage, Percent: percent, Detail: detail}:
		case <-ctx.Done():
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, ErrCancelled
	}

	emit(StageCoverage, 5, "segmenting coverage")
	times := make([]int64, len(events))
	for i, e := range events {
		times[i] = e.TimeMs
	}
	cov := coverage.Analyze(times)

	emit(StageStream, 10, "building observation windows")
	windows := window.FromPeriods(cov.Periods)
	stream := window.BuildEventStream(events, windows)
	totalObservedHours := float64(window.TotalObservedMs(windows)) / 3_600_000

	base := &Result{
		Coverage:           cov,
		TotalObservedHours: totalObservedHours,
		NumEvents:          stream.NumEvents(),
		NumTypes:           stream.NumTypes(),
	}

	if len(windows) == 0 || stream.NumEvents() < minUsableEvents || stream.NumTypes() < minDistinctTypes {
		emit(StageAborted, 100, "insufficient data for a model fit")
		return base, nil
	}

	fitOpts := fit.Options{
		NumBases:         opts.NumBases,
		MaxIter:          opts.MaxIter,
		LearningRate:     opts.LearningRate,
		Lambda1:          opts.Lambda1,
		Lambda2:          opts.Lambda2,
		QuadraturePoints: likelihoodQuadraturePoints,
	}

	emit(StageFit, 15, "fitting target types")
	fm, err := fit.FitAllTraced(ctx, stream, windows, fitOpts, func(pct int, detail string) {
		emit(StageFit, 15+70*pct/100, detail)
	}, ft)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrCancelled
		}
		emit(StageError, 100, err.Error())
		return nil, err
	}

	modelFitted := len(fm.Targets) > 0
	base.ModelFitted = modelFitted
	if !modelFitted {
		emit(StageDone, 100, "no eligible target types")
		return base, nil
	}

	emit(StageSummarize, 90, "extracting edges and baselines")
	base.Edges = summary.EdgesTraced(fm, opts.MinStrength, et)
	base.Baselines = summary.Baselines(fm)

	emit(StageDiagnose, 95, "running KS diagnostics")
	base.Diagnostics = diagnostics.Analyze(fm, stream, windows)

	base.Insights = deriveInsights(base.Edges, base.Baselines, opts.MaxInsights)

	emit(StageDone, 100, "analysis complete")
	return base, nil
}

// deriveInsights ranks edges ahead of baselines (an edge names a concrete
// causal relationship; a baseline just restates a rhythm), truncating to
// maxInsights. Edges are already sorted by descending strength; baselines
// are re-sorted by combined rhythm amplitude so the most pronounced rhythms
// lead.
func deriveInsights(edges []summary.Edge, baselines []summary.Baseline, maxInsights int) []Insight {
	if maxInsights <= 0 {
		return nil
	}

	var out []Insight
	for _, e := range edges {
		kind := InsightInfluence
		if e.MassTimeMs < coOccurrenceMassTimeMs {
			kind = InsightCoOccurrence
		}
		out = append(out, Insight{Kind: kind, Text: edgeInsightText(e, kind)})
	}

	ranked := append([]summary.Baseline(nil), baselines...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].HourAmplitude+ranked[i].DowAmplitude > ranked[j].HourAmplitude+ranked[j].DowAmplitude
	})
	for _, b := range ranked {
		out = append(out, Insight{Kind: InsightRhythm, Text: rhythmInsightText(b)})
	}

	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}
