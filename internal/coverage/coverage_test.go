package coverage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayMs(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC).UnixMilli()
}

func TestAnalyze_Empty(t *testing.T) {
	r := Analyze(nil)
	assert.Zero(t, r.TotalDays)
	assert.Zero(t, r.ActiveDays)
	assert.Zero(t, r.GapDays)
	assert.Empty(t, r.Periods)
}

func TestAnalyze_AllActiveSinglePeriod(t *testing.T) {
	var times []int64
	for d := 1; d <= 40; d++ {
		for e := 0; e < 5; e++ {
			times = append(times, dayMs(2024, time.January, d))
		}
	}
	r := Analyze(times)
	require.Len(t, r.Periods, 1, "expected a single active period: %+v", r.Periods)
	assert.False(t, r.Periods[0].IsGap, "expected the single period to be active")
	assert.Equal(t, r.TotalDays, r.ActiveDays, "expected all days active")
	assert.Zero(t, r.GapDays)
}

// TestAnalyze_Closure verifies property 3: coverage closure.
func TestAnalyze_Closure(t *testing.T) {
	var times []int64
	for d := 1; d <= 40; d++ {
		for e := 0; e < 5; e++ {
			times = append(times, dayMs(2024, time.January, d))
		}
	}
	// 20-day silence (Feb 10-29, a gap), then more activity.
	for d := 1; d <= 40; d++ {
		for e := 0; e < 5; e++ {
			times = append(times, dayMs(2024, time.March, d))
		}
	}
	r := Analyze(times)

	assert.Equal(t, r.TotalDays, r.ActiveDays+r.GapDays, "activeDays + gapDays != totalDays")

	sumDays := 0
	for i, p := range r.Periods {
		sumDays += p.DayCount
		assert.Equal(t, p.EndDay-p.StartDay+1, p.DayCount, "period %d dayCount mismatch", i)
		if i > 0 {
			assert.NotEqual(t, r.Periods[i-1].IsGap, p.IsGap, "periods %d and %d share isGap", i-1, i)
		}
	}
	assert.Equal(t, r.TotalDays, sumDays, "sum of period dayCounts != totalDays")
}

// TestAnalyze_S6Scenario mirrors spec scenario S6: 200 events in Jan 2024 and
// 200 in Jun 2024, nothing between, yielding exactly one gap period of >= 14
// days and two active periods.
func TestAnalyze_S6Scenario(t *testing.T) {
	var times []int64
	for i := 0; i < 200; i++ {
		times = append(times, dayMs(2024, time.January, 1+i%28)+int64(i)*1000)
	}
	for i := 0; i < 200; i++ {
		times = append(times, dayMs(2024, time.June, 1+i%28)+int64(i)*1000)
	}

	r := Analyze(times)

	gapCount, activeCount := 0, 0
	for _, p := range r.Periods {
		if p.IsGap {
			gapCount++
			assert.GreaterOrEqual(t, p.DayCount, minGapDays, "gap period shorter than min gap threshold: %+v", p)
		} else {
			activeCount++
		}
	}
	assert.Equal(t, 1, gapCount, "expected exactly 1 gap period: %+v", r.Periods)
	assert.Equal(t, 2, activeCount, "expected exactly 2 active periods: %+v", r.Periods)
}
