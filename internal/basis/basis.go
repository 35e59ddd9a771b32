// Package basis implements the fixed exponential-decay kernel family used to
// model how one event type's occurrences perturb another's instantaneous
// rate over a range of timescales.
package basis

import "math"

// MaxBases is the number of fixed timescales the model can use (B_max).
const MaxBases = 9

// DefaultNumBases is the default number of active bases (up to 1 day).
const DefaultNumBases = 6

// Timescales holds the fixed decay constants, in hours, from 5 minutes to
// 21 days. A fitted model uses a prefix Timescales[:B] for some B <= MaxBases.
var Timescales = [MaxBases]float64{
	5.0 / 60, 15.0 / 60, 1, 4, 12, 24, 72, 168, 504,
}

const (
	peakGridFromHours = 5.0 / 60
	peakGridToHours   = 168.0
	peakGridPoints    = 200

	massGridFromHours = 1.0 / 60
	massGridToHours   = 168.0
	massGridPoints    = 500

	horizonHours = 168.0

	minMassIntegral = 1e-10
)

// Kernel evaluates a single exponential basis at lag dh (hours).
// Returns 0 for non-positive lag: influence only acts forward in time.
func Kernel(tau, dh float64) float64 {
	if dh <= 0 {
		return 0
	}
	return math.Exp(-dh / tau)
}

// Decay returns the multiplicative decay factor applied to a recursive
// state's running impulse sum over an elapsed interval dh (hours).
func Decay(dh, tau float64) float64 {
	return math.Exp(-dh / tau)
}

// Eval computes g(dh) = sum_b weights[b] * Kernel(Timescales[b], dh) for the
// first len(weights) timescales.
func Eval(weights []float64, dh float64) float64 {
	g := 0.0
	for b, w := range weights {
		if w == 0 {
			continue
		}
		g += w * Kernel(Timescales[b], dh)
	}
	return g
}

// logspace returns n log-spaced points in [from, to] (inclusive), from>0.
func logspace(from, to float64, n int) []float64 {
	if n <= 1 {
		return []float64{from}
	}
	logFrom, logTo := math.Log(from), math.Log(to)
	step := (logTo - logFrom) / float64(n-1)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Exp(logFrom + step*float64(i))
	}
	return out
}

// PeakLag sweeps a log-spaced grid over [5min, 168h] and returns the lag (in
// milliseconds) and curve value at the point maximizing |g(dh)|.
func PeakLag(weights []float64) (peakLagMs int64, peakValue float64) {
	grid := logspace(peakGridFromHours, peakGridToHours, peakGridPoints)
	bestAbs := -1.0
	bestDh := grid[0]
	bestVal := 0.0
	for _, dh := range grid {
		v := Eval(weights, dh)
		av := math.Abs(v)
		if av > bestAbs {
			bestAbs = av
			bestDh = dh
			bestVal = v
		}
	}
	return hoursToMs(bestDh), bestVal
}

// MassTime50 integrates |g(dh)| over a log-spaced grid from 1 minute to 168
// hours and returns (in milliseconds) the first lag whose cumulative
// absolute mass reaches 50% of the total absolute integral. Returns 0 if the
// total absolute integral is negligible.
func MassTime50(weights []float64) int64 {
	grid := logspace(massGridFromHours, massGridToHours, massGridPoints)
	abs := make([]float64, len(grid))
	for i, dh := range grid {
		abs[i] = math.Abs(Eval(weights, dh))
	}

	total := 0.0
	for i := 1; i < len(grid); i++ {
		total += 0.5 * (abs[i-1] + abs[i]) * (grid[i] - grid[i-1])
	}
	if total < minMassIntegral {
		return 0
	}

	target := 0.5 * total
	cum := 0.0
	for i := 1; i < len(grid); i++ {
		seg := 0.5 * (abs[i-1] + abs[i]) * (grid[i] - grid[i-1])
		if cum+seg >= target {
			return hoursToMs(grid[i])
		}
		cum += seg
	}
	return hoursToMs(grid[len(grid)-1])
}

// IntegratedEffect returns the closed-form integral of g over [0, 168h]:
// sum_b weights[b] * tau_b * (1 - exp(-168/tau_b)).
func IntegratedEffect(weights []float64) float64 {
	total := 0.0
	for b, w := range weights {
		if w == 0 {
			continue
		}
		tau := Timescales[b]
		total += w * tau * (1 - math.Exp(-horizonHours/tau))
	}
	return total
}

func hoursToMs(h float64) int64 {
	return int64(math.Round(h * 3_600_000))
}
