// Package eventlog defines the raw event and typed-event-stream value types
// shared by window construction, synthetic generation, and the CLI loader.
package eventlog

import "math"

// Event is a single timestamped, typed occurrence as supplied by a caller.
type Event struct {
	Type   string // non-empty
	TimeMs int64  // absolute time, milliseconds UTC
}

// Valid reports whether the event has a finite time and a non-empty type.
func (e Event) Valid() bool {
	return e.Type != "" && !math.IsNaN(float64(e.TimeMs)) && !math.IsInf(float64(e.TimeMs), 0)
}

// Stream holds a sorted, type-interned event stream: parallel arrays of
// times and type indices, plus the dense name<->index mapping.
type Stream struct {
	Times     []int64  // non-decreasing
	TypeIdx   []int    // TypeIdx[i] < len(TypeNames)
	TypeNames []string // dense; TypeNames[i] is the name of type index i in TypeIdx
}

// NumEvents returns the number of events in the stream.
func (s *Stream) NumEvents() int { return len(s.Times) }

// NumTypes returns the number of distinct types interned in the stream.
func (s *Stream) NumTypes() int { return len(s.TypeNames) }

// CountByType returns the number of events per type index.
func (s *Stream) CountByType() []int {
	counts := make([]int, len(s.TypeNames))
	for _, idx := range s.TypeIdx {
		counts[idx]++
	}
	return counts
}
