// Package window converts coverage active periods into half-open
// observation-window intervals and restricts/sorts/interns an event stream
// to those windows.
package window

import (
	"sort"

	"github.com/lifetracker/eventmodel/internal/coverage"
	"github.com/lifetracker/eventmodel/internal/eventlog"
)

const (
	msPerDay   = 86_400_000
	mergeGapMs = 6 * 60 * 60 * 1000 // 6 hours
)

// Window is a half-open observation interval [StartMs, EndMs).
type Window struct {
	StartMs int64
	EndMs   int64
}

// Len returns the window's length in milliseconds.
func (w Window) Len() int64 { return w.EndMs - w.StartMs }

// FromPeriods converts each active coverage period into a half-open window
// [startMs(d0), endMs(d1)+24h), then sorts and merges windows whose gap is
// at most 6 hours.
func FromPeriods(periods []coverage.Period) []Window {
	var windows []Window
	for _, p := range periods {
		if p.IsGap {
			continue
		}
		windows = append(windows, Window{
			StartMs: int64(p.StartDay) * msPerDay,
			EndMs:   int64(p.EndDay+1) * msPerDay,
		})
	}
	if len(windows) == 0 {
		return nil
	}

	sort.Slice(windows, func(i, j int) bool { return windows[i].StartMs < windows[j].StartMs })

	merged := make([]Window, 0, len(windows))
	cur := windows[0]
	for _, w := range windows[1:] {
		if w.StartMs <= cur.EndMs+mergeGapMs {
			if w.EndMs > cur.EndMs {
				cur.EndMs = w.EndMs
			}
			continue
		}
		merged = append(merged, cur)
		cur = w
	}
	merged = append(merged, cur)
	return merged
}

// TotalObservedMs sums the length of every window.
func TotalObservedMs(windows []Window) int64 {
	var total int64
	for _, w := range windows {
		total += w.Len()
	}
	return total
}

// contains reports whether t falls in any of the sorted, non-overlapping
// windows, using binary search.
func contains(windows []Window, t int64) bool {
	i := sort.Search(len(windows), func(i int) bool { return windows[i].EndMs > t })
	return i < len(windows) && t >= windows[i].StartMs
}

// BuildEventStream drops events with non-finite times or type names, or that
// fall outside every window, sorts the remainder by time, interns type names
// into a dense index, and returns the resulting stream.
func BuildEventStream(events []eventlog.Event, windows []Window) *eventlog.Stream {
	kept := make([]eventlog.Event, 0, len(events))
	for _, e := range events {
		if !e.Valid() {
			continue
		}
		if !contains(windows, e.TimeMs) {
			continue
		}
		kept = append(kept, e)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].TimeMs < kept[j].TimeMs })

	nameToIdx := make(map[string]int)
	var names []string
	times := make([]int64, len(kept))
	typeIdx := make([]int, len(kept))
	for i, e := range kept {
		idx, ok := nameToIdx[e.Type]
		if !ok {
			idx = len(names)
			nameToIdx[e.Type] = idx
			names = append(names, e.Type)
		}
		times[i] = e.TimeMs
		typeIdx[i] = idx
	}

	return &eventlog.Stream{
		Times:     times,
		TypeIdx:   typeIdx,
		TypeNames: names,
	}
}
