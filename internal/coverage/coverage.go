// Package coverage segments the observed timeline into active (genuinely
// tracked) and gap (dormant) periods, so the model isn't penalized for
// missing events during absences.
package coverage

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	rollingWindowDays = 30
	minGapDays        = 14
	minActiveCount    = 2
	activeFraction    = 0.1
)

// Period is a contiguous run of calendar days with the same active/gap
// classification. StartDay/EndDay are inclusive day numbers (days since the
// Unix epoch, UTC).
type Period struct {
	StartDay   int  `json:"start"`
	EndDay     int  `json:"end"`
	DayCount   int  `json:"dayCount"`
	EventCount int  `json:"eventCount"`
	IsGap      bool `json:"isGap"`
}

// Result is the coverage summary produced by Analyze.
type Result struct {
	TotalDays       int      `json:"totalDays"`
	ActiveDays      int      `json:"activeDays"`
	GapDays         int      `json:"gapDays"`
	CoveragePercent float64  `json:"coveragePercent"`
	Periods         []Period `json:"periods"`
}

// Analyze builds a dense daily-count histogram from event timestamps
// (milliseconds UTC) and segments it into active/gap periods using a
// rolling-median activity baseline. Returns a zeroed Result for empty input.
func Analyze(timesMs []int64) Result {
	if len(timesMs) == 0 {
		return Result{}
	}

	firstDay, lastDay := dayOf(timesMs[0]), dayOf(timesMs[0])
	for _, t := range timesMs {
		d := dayOf(t)
		if d < firstDay {
			firstDay = d
		}
		if d > lastDay {
			lastDay = d
		}
	}

	totalDays := lastDay - firstDay + 1
	counts := make([]int, totalDays)
	for _, t := range timesMs {
		counts[dayOf(t)-firstDay]++
	}

	active := make([]bool, totalDays)
	for i := range counts {
		baseline := rollingMedian(counts, i)
		threshold := activeFraction * baseline
		if threshold < minActiveCount {
			threshold = minActiveCount
		}
		active[i] = float64(counts[i]) >= threshold
	}

	mergeShortGaps(active)

	periods := buildPeriods(active, counts, firstDay)

	activeDays := 0
	for _, a := range active {
		if a {
			activeDays++
		}
	}
	gapDays := totalDays - activeDays

	return Result{
		TotalDays:       totalDays,
		ActiveDays:      activeDays,
		GapDays:         gapDays,
		CoveragePercent: 100 * float64(activeDays) / float64(totalDays),
		Periods:         periods,
	}
}

func dayOf(timeMs int64) int {
	const msPerDay = 86_400_000
	// floor division toward -inf so pre-epoch negative times bucket correctly
	if timeMs >= 0 {
		return int(timeMs / msPerDay)
	}
	return int((timeMs - msPerDay + 1) / msPerDay)
}

// rollingMedian computes the median count over the window [i-30, i+30]
// (clamped to the array bounds), using gonum's empirical quantile.
func rollingMedian(counts []int, i int) float64 {
	lo := i - rollingWindowDays
	if lo < 0 {
		lo = 0
	}
	hi := i + rollingWindowDays
	if hi > len(counts)-1 {
		hi = len(counts) - 1
	}

	window := make([]float64, 0, hi-lo+1)
	for j := lo; j <= hi; j++ {
		window = append(window, float64(counts[j]))
	}
	sort.Float64s(window)
	return stat.Quantile(0.5, stat.Empirical, window, nil)
}

// mergeShortGaps flips inactive runs shorter than minGapDays to active,
// in place, iterating until no inactive run under the threshold remains.
func mergeShortGaps(active []bool) {
	for {
		changed := false
		i := 0
		for i < len(active) {
			j := i
			for j < len(active) && active[j] == active[i] {
				j++
			}
			if !active[i] && (j-i) < minGapDays {
				for k := i; k < j; k++ {
					active[k] = true
				}
				changed = true
			}
			i = j
		}
		if !changed {
			return
		}
	}
}

func buildPeriods(active []bool, counts []int, firstDay int) []Period {
	if len(active) == 0 {
		return nil
	}
	var periods []Period
	i := 0
	for i < len(active) {
		j := i
		for j < len(active) && active[j] == active[i] {
			j++
		}
		events := 0
		for k := i; k < j; k++ {
			events += counts[k]
		}
		periods = append(periods, Period{
			StartDay:   firstDay + i,
			EndDay:     firstDay + j - 1,
			DayCount:   j - i,
			EventCount: events,
			IsGap:      !active[i],
		})
		i = j
	}
	return periods
}
