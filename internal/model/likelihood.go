package model

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/lifetracker/eventmodel/internal/eventlog"
	"github.com/lifetracker/eventmodel/internal/features"
	"github.com/lifetracker/eventmodel/internal/state"
	"github.com/lifetracker/eventmodel/internal/window"
)

// Gradient holds the gradient of the regularized log-likelihood with
// respect to target k's own baseline row Beta[k] and influence rows
// Theta[k][s] for every source s != k.
type Gradient struct {
	Beta  []float64
	Theta [][]float64 // Theta[s][b]; row k stays zero
}

func newGradient(numTypes, numBases int) *Gradient {
	g := &Gradient{Beta: make([]float64, features.NumFeatures)}
	g.Theta = make([][]float64, numTypes)
	for s := range g.Theta {
		g.Theta[s] = make([]float64, numBases)
	}
	return g
}

// EvalTarget computes the regularized log-likelihood and its gradient for
// target type k over the given event stream restricted to windows, using Q
// left-rectangle quadrature points per window. See spec §4.5: events and
// quadrature ticks are interleaved in time order (quadrature before events
// at equal timestamps), the recursive state is decayed to each tick, scored,
// and then incremented once per event after its group is fully scored.
func EvalTarget(k int, stream *eventlog.Stream, windows []window.Window, params *Params, lambda1, lambda2 float64, quadraturePoints int) (float64, *Gradient) {
	numTypes := params.NumTypes
	st := state.New(numTypes, params.NumBases)
	grad := newGradient(numTypes, params.NumBases)
	logLik := 0.0

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

			logLik -= lambda * t.dtHours
			floats.AddScaled(grad.Beta, -lambda*t.dtHours, f[:])
			for s, vec := range st.S {
				if s == k {
					continue
				}
				floats.AddScaled(grad.Theta[s], -lambda*t.dtHours, vec)
			}
		}

		var sourceTypes []int
		for _, t := range group {
			if !t.isEvent {
				continue
			}
			srcType := stream.TypeIdx[t.eventIdx]
			if srcType == k {
				f := currentFeat(t.timeMs)
				eta := safeEta(params.Eta(k, f, st.S))
				logLik += Clamp(eta, -EtaClampAbs, EtaClampAbs)
				floats.Add(grad.Beta, f[:])
				for s, vec := range st.S {
					if s == k {
						continue
					}
					floats.Add(grad.Theta[s], vec)
				}
			}
			sourceTypes = append(sourceTypes, srcType)
		}
		for _, srcType := range sourceTypes {
			st.Increment(srcType)
		}
	}

	for s := 0; s < numTypes; s++ {
		if s == k {
			continue
		}
		thetaRow := params.Theta[k][s]
		gradRow := grad.Theta[s]
		logLik -= lambda1*floats.Norm(thetaRow, 1) + lambda2*floats.Dot(thetaRow, thetaRow)
		for b, w := range thetaRow {
			gradRow[b] -= lambda1*sign(w) + 2*lambda2*w
		}
	}

	return logLik, grad
}

// safeEta guards against a non-finite linear predictor (numerical
// degeneracy per spec §7): treat it as neutral (0) rather than propagate NaN
// or Inf into the likelihood or gradient.
func safeEta(eta float64) float64 {
	if math.IsNaN(eta) || math.IsInf(eta, 0) {
		return 0
	}
	return eta
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
