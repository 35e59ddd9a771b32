package fit

import (
	"context"

	"github.com/lifetracker/eventmodel/internal/eventlog"
	"github.com/lifetracker/eventmodel/internal/model"
	"github.com/lifetracker/eventmodel/internal/trace"
	"github.com/lifetracker/eventmodel/internal/window"
)

// FullModelFit aggregates the shared parameter object with one Result per
// eligible target type. Targets with fewer than MinTargetEvents events are
// absent from Targets.
type FullModelFit struct {
	Params    *model.Params
	Targets   map[int]*Result
	TypeNames []string
}

// ProgressFunc is called once per completed target, with percent in [0,100]
// and a human-readable detail string, so a host can relay fit progress.
type ProgressFunc func(percent int, detail string)

// FitAll seeds parameters from the data, then fits every eligible target
// type (count >= MinTargetEvents) independently and in order, yielding to
// progress/ctx between targets (spec §4.6/§5: the only suspension points are
// the per-target yields between Fitter targets). Returns ctx.Err() with a
// nil FullModelFit if cancelled mid-run; the caller discards partial state.
func FitAll(ctx context.Context, stream *eventlog.Stream, windows []window.Window, opts Options, progress ProgressFunc) (*FullModelFit, error) {
	return FitAllTraced(ctx, stream, windows, opts, progress, nil)
}

// FitAllTraced behaves like FitAll, additionally recording every target's
// Adam iterations into ft for CLI --verbose output. ft may be nil.
func FitAllTraced(ctx context.Context, stream *eventlog.Stream, windows []window.Window, opts Options, progress ProgressFunc, ft *trace.FitTrace) (*FullModelFit, error) {
	numTypes := stream.NumTypes()
	params := model.NewParams(numTypes, opts.NumBases)

	counts := stream.CountByType()
	totalHours := float64(window.TotalObservedMs(windows)) / 3_600_000
	InitParamsFromData(params, counts, totalHours)

	var eligible []int
	for k, c := range counts {
		if c >= MinTargetEvents {
			eligible = append(eligible, k)
		}
	}

	targets := make(map[int]*Result, len(eligible))
	for i, k := range eligible {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		targets[k] = FitTargetTraced(k, stream, windows, params, opts, ft)

		if progress != nil {
			pct := 100 * (i + 1) / len(eligible)
			progress(pct, "fit target "+stream.TypeNames[k])
		}
	}

	return &FullModelFit{
		Params:    params,
		Targets:   targets,
		TypeNames: stream.TypeNames,
	}, nil
}
