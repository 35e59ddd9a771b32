package model

import "container/heap"

// tick is one scoring point in the time-ordered merge: either an event from
// the stream or a quadrature left-endpoint from one window.
type tick struct {
	timeMs   int64
	isEvent  bool
	eventIdx int     // valid when isEvent
	dtHours  float64 // valid when !isEvent: this quadrature point's width
}

// tickSource produces ticks (the whole event stream, or one window's
// quadrature points) in non-decreasing time order. It mirrors the teacher's Event/Execute shape from sim/event.go,
// repurposed from simulation events to likelihood quadrature/event ticks.
type tickSource interface {
	peek() (tick, bool)
	advance()
}

// eventSource walks the (already time-sorted) event stream once.
type eventSource struct {
	times []int64
	i     int
}

func (s *eventSource) peek() (tick, bool) {
	if s.i >= len(s.times) {
		return tick{}, false
	}
	return tick{timeMs: s.times[s.i], isEvent: true, eventIdx: s.i}, true
}

func (s *eventSource) advance() { s.i++ }

// quadSource walks one window's Q left-rectangle quadrature points.
type quadSource struct {
	startMs int64
	stepMs  float64
	dtHours float64
	i, q    int
}

func (s *quadSource) peek() (tick, bool) {
	if s.i >= s.q {
		return tick{}, false
	}
	t := s.startMs + int64(float64(s.i)*s.stepMs)
	return tick{timeMs: t, isEvent: false, dtHours: s.dtHours}, true
}

func (s *quadSource) advance() { s.i++ }

// headEntry binds a source to its currently-peeked tick, for the heap.
type headEntry struct {
	src tickSource
	cur tick
}

// tickHeap is a min-heap over headEntry ordered by time (ties broken with
// quadrature points before events, per the spec's merge rule — though since
// nextGroup groups equal-time ticks before callers split them by kind, the tie
// order here only affects which duplicate-time entry is emitted first, not
// correctness).
type tickHeap []*headEntry

func (h tickHeap) Len() int { return len(h) }
func (h tickHeap) Less(i, j int) bool {
	a, b := h[i].cur, h[j].cur
	if a.timeMs != b.timeMs {
		return a.timeMs < b.timeMs
	}
	return !a.isEvent && b.isEvent
}
func (h tickHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *tickHeap) Push(x any)   { *h = append(*h, x.(*headEntry)) }
func (h *tickHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// merger performs a k-way merge of the event source and every window's
// quadrature source, grouping consecutive ticks that share an exact
// timestamp (spec: "at each tick... for each quadrature point... for each
// event... after the group is scored, increment").
type merger struct {
	h tickHeap
}

func newMerger(sources []tickSource) *merger {
	m := &merger{}
	for _, s := range sources {
		if t, ok := s.peek(); ok {
			heap.Push(&m.h, &headEntry{src: s, cur: t})
		}
	}
	return m
}

// nextGroup returns every tick sharing the next (smallest) timestamp, or
// false when the merge is exhausted.
func (m *merger) nextGroup() ([]tick, bool) {
	if m.h.Len() == 0 {
		return nil, false
	}
	first := heap.Pop(&m.h).(*headEntry)
	groupTime := first.cur.timeMs
	group := []tick{first.cur}
	m.pushNext(first)

	for m.h.Len() > 0 && m.h[0].cur.timeMs == groupTime {
		e := heap.Pop(&m.h).(*headEntry)
		group = append(group, e.cur)
		m.pushNext(e)
	}
	return group, true
}

func (m *merger) pushNext(e *headEntry) {
	e.src.advance()
	if nt, ok := e.src.peek(); ok {
		heap.Push(&m.h, &headEntry{src: e.src, cur: nt})
	}
}
