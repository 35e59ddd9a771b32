package model

import (
	"github.com/lifetracker/eventmodel/internal/eventlog"
	"github.com/lifetracker/eventmodel/internal/features"
	"github.com/lifetracker/eventmodel/internal/state"
	"github.com/lifetracker/eventmodel/internal/window"
)

// InterEventIntegrals computes, for target type k, the sequence of
// per-inter-event integrated intensities Lambda_i = integral of lambda_k(u)
// du over (t_{k,i-1}, t_{k,i}], restricted to the observation windows, using
// the same time-ordered event/quadrature merge as EvalTarget (spec §4.8: the
// diagnostics quadrature reuses LG's mechanism, just with fewer points).
//
// The interval before the first target-k event contributes no entry: a
// rescaled inter-event time is only defined between two observed target
// events.
func InterEventIntegrals(k int, stream *eventlog.Stream, windows []window.Window, params *Params, quadraturePoints int) []float64 {
	numTypes := params.NumTypes
	st := state.New(numTypes, params.NumBases)

	sources := make([]tickSource, 0, len(windows)+1)
	sources = append(sources, &eventSource{times: stream.Times})
	for _, w := range windows {
		if quadraturePoints <= 0 || w.Len() <= 0 {
			continue
		}
		stepMs := float64(w.Len()) / float64(quadraturePoints)
		sources = append(sources, &quadSource{
			startMs: w.StartMs,
			stepMs:  stepMs,
			dtHours: stepMs / 3_600_000,
			q:       quadraturePoints,
		})
	}

	var lambdas []float64
	running := 0.0
	seenFirst := false

	m := newMerger(sources)
	for {
		group, ok := m.nextGroup()
		if !ok {
			break
		}

		tHours := float64(group[0].timeMs) / 3_600_000
		st.AdvanceTo(tHours)

		var feat [features.NumFeatures]float64
		featReady := false
		currentFeat := func(tMs int64) [features.NumFeatures]float64 {
			if !featReady {
				feat = features.Vector(tMs)
				featReady = true
			}
			return feat
		}

		for _, t := range group {
			if t.isEvent {
				continue
			}
			f := currentFeat(t.timeMs)
			eta := safeEta(params.Eta(k, f, st.S))
			lambda := Intensity(eta)
			if seenFirst {
				running += lambda * t.dtHours
			}
		}

		var sourceTypes []int
		for _, t := range group {
			if !t.isEvent {
				continue
			}
			srcType := stream.TypeIdx[t.eventIdx]
			if srcType == k {
				if seenFirst {
					lambdas = append(lambdas, running)
				}
				running = 0
				seenFirst = true
			}
			sourceTypes = append(sourceTypes, srcType)
		}
		for _, srcType := range sourceTypes {
			st.Increment(srcType)
		}
	}

	return lambdas
}
