package pipeline

import (
	"fmt"

	"github.com/lifetracker/eventmodel/internal/summary"
)

// edgeInsightText renders a human-readable sentence for one influence edge.
func edgeInsightText(e summary.Edge, kind InsightKind) string {
	if kind == InsightCoOccurrence {
		return fmt.Sprintf("%s and %s tend to co-occur (within %s)", e.Src, e.Tgt, durationText(e.MassTimeMs))
	}

	verb := "raises"
	if e.Direction == summary.Inhibit {
		verb = "lowers"
	}
	return fmt.Sprintf("%s %s the rate of %s, peaking around %s after (HR %.2fx)",
		e.Src, verb, e.Tgt, durationText(e.PeakLagMs), e.HRPeak)
}

// rhythmInsightText renders a human-readable sentence for one baseline
// rhythm summary.
func rhythmInsightText(b summary.Baseline) string {
	return fmt.Sprintf("%s follows a daily rhythm peaking around %s, and a weekly rhythm peaking on %s",
		b.TypeName, hourOfDayText(b.HourPeak), dayOfWeekText(b.DowPeak))
}

func durationText(ms int64) string {
	switch {
	case ms < 60_000:
		return fmt.Sprintf("%ds", ms/1000)
	case ms < 3_600_000:
		return fmt.Sprintf("%dm", ms/60_000)
	case ms < 86_400_000:
		return fmt.Sprintf("%.1fh", float64(ms)/3_600_000)
	default:
		return fmt.Sprintf("%.1fd", float64(ms)/86_400_000)
	}
}

func hourOfDayText(hour float64) string {
	h := int(hour)
	m := int((hour - float64(h)) * 60)
	return fmt.Sprintf("%02d:%02d", h, m)
}

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func dayOfWeekText(dow int) string {
	if dow < 0 || dow > 6 {
		return "unknown"
	}
	return weekdayNames[dow]
}
