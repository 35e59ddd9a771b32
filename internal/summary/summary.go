// Package summary extracts human-interpretable influence edges and baseline
// rhythm summaries from a fitted model.
package summary

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/lifetracker/eventmodel/internal/basis"
	"github.com/lifetracker/eventmodel/internal/fit"
	"github.com/lifetracker/eventmodel/internal/trace"
)

// Direction classifies an influence edge's net effect.
type Direction string

const (
	Excite  Direction = "excite"
	Inhibit Direction = "inhibit"
	Neutral Direction = "neutral"
)

const (
	directionThreshold = 0.1

	lag15m = 0.25
	lag1h  = 1.0
	lag6h  = 6.0
)

// DefaultMinStrength is the default minimum L1 weight norm an edge needs to
// be reported (spec §6/§4.7).
const DefaultMinStrength = 0.1

// Edge is a directed src->tgt influence summary.
type Edge struct {
	Src              string    `json:"src"`
	Tgt              string    `json:"tgt"`
	PeakLagMs        int64     `json:"peakLagMs"`
	PeakEffect       float64   `json:"peakEffect"`
	MassTimeMs       int64     `json:"massTimeMs"`
	IntegratedEffect float64   `json:"integratedEffect"`
	HRPeak           float64   `json:"hrPeak"`
	HR15m            float64   `json:"hr15m"`
	HR1h             float64   `json:"hr1h"`
	HR6h             float64   `json:"hr6h"`
	Direction        Direction `json:"direction"`
	Strength         float64   `json:"strength"`
	Weights          []float64 `json:"weights"`
}

// Baseline is a per-type rhythm summary.
type Baseline struct {
	TypeName         string  `json:"typeName"`
	InterceptLogRate float64 `json:"interceptLogRate"`
	HourPeak         float64 `json:"hourPeak"`
	HourAmplitude    float64 `json:"hourAmplitude"`
	DowPeak          int     `json:"dowPeak"`
	DowAmplitude     float64 `json:"dowAmplitude"`
}

// Edges extracts every (src,tgt) influence edge whose L1 weight norm meets
// minStrength, sorted by descending strength.
func Edges(fm *fit.FullModelFit, minStrength float64) []Edge {
	return EdgesTraced(fm, minStrength, nil)
}

// EdgesTraced behaves like Edges, additionally recording every candidate
// (src,tgt) pair's L1 norm and whether it cleared minStrength into et for
// CLI --verbose output. et may be nil.
func EdgesTraced(fm *fit.FullModelFit, minStrength float64, et *trace.ExtractionTrace) []Edge {
	targets := make([]int, 0, len(fm.Targets))
	for tgt := range fm.Targets {
		targets = append(targets, tgt)
	}
	sort.Ints(targets)

	var edges []Edge
	for _, tgt := range targets {
		for src := 0; src < fm.Params.NumTypes; src++ {
			if src == tgt {
				continue
			}
			weights := fm.Params.Theta[tgt][src]
			l1 := floats.Norm(weights, 1)
			if l1 < minStrength {
				et.Record(fm.TypeNames[src], fm.TypeNames[tgt], l1, false)
				continue
			}
			et.Record(fm.TypeNames[src], fm.TypeNames[tgt], l1, true)

			peakLagMs, peakValue := basis.PeakLag(weights)
			massTimeMs := basis.MassTime50(weights)
			integrated := basis.IntegratedEffect(weights)

			dir := Neutral
			switch {
			case integrated > directionThreshold:
				dir = Excite
			case integrated < -directionThreshold:
				dir = Inhibit
			}

			w := append([]float64(nil), weights...)
			edges = append(edges, Edge{
				Src:              fm.TypeNames[src],
				Tgt:              fm.TypeNames[tgt],
				PeakLagMs:        peakLagMs,
				PeakEffect:       peakValue,
				MassTimeMs:       massTimeMs,
				IntegratedEffect: integrated,
				HRPeak:           math.Exp(peakValue),
				HR15m:            hazardRatio(weights, lag15m),
				HR1h:             hazardRatio(weights, lag1h),
				HR6h:             hazardRatio(weights, lag6h),
				Direction:        dir,
				Strength:         l1 / (1 + l1),
				Weights:          w,
			})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Strength != edges[j].Strength {
			return edges[i].Strength > edges[j].Strength
		}
		if edges[i].Src != edges[j].Src {
			return edges[i].Src < edges[j].Src
		}
		return edges[i].Tgt < edges[j].Tgt
	})
	return edges
}

func hazardRatio(weights []float64, lagHours float64) float64 {
	return math.Exp(basis.Eval(weights, lagHours))
}

// Baselines extracts a rhythm summary for every fitted target type.
func Baselines(fm *fit.FullModelFit) []Baseline {
	var out []Baseline
	for tgt := range fm.Targets {
		beta := fm.Params.Beta[tgt]

		hourPhase := math.Atan2(beta[1], beta[2])
		hourAmp := math.Hypot(beta[1], beta[2])
		hourPeak := positiveMod(24*hourPhase/(2*math.Pi), 24)

		dowPhase := math.Atan2(beta[5], beta[6])
		dowAmp := math.Hypot(beta[5], beta[6])
		dowPeak := int(math.Round(positiveMod(7*dowPhase/(2*math.Pi), 7)))
		if dowPeak == 7 {
			dowPeak = 0
		}

		out = append(out, Baseline{
			TypeName:         fm.TypeNames[tgt],
			InterceptLogRate: beta[0],
			HourPeak:         hourPeak,
			HourAmplitude:    hourAmp,
			DowPeak:          dowPeak,
			DowAmplitude:     dowAmp,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeName < out[j].TypeName })
	return out
}

func positiveMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
		if r >= m {
			r = 0
		}
	}
	return r
}
