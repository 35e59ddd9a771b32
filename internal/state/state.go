// Package state maintains the recursive per-source-type impulse-sum vectors
// that let the likelihood evaluate a sum of exponential kernels in O(1) per
// tick instead of re-summing full event history.
package state

import (
	"math"

	"github.com/lifetracker/eventmodel/internal/basis"
)

// State is the recursive running-impulse-sum vector S[s][b], scoped to a
// single likelihood or diagnostics pass over one target type.
type State struct {
	S             [][]float64 // S[sourceTypeIdx][basisIdx]
	LastTimeHours float64
	NumBases      int
}

// New allocates a zeroed state for numTypes source types and numBases basis
// components. LastTimeHours starts at NaN so the first AdvanceTo call is a
// no-op decay (establishes the clock without decaying from nothing).
func New(numTypes, numBases int) *State {
	s := &State{
		S:        make([][]float64, numTypes),
		NumBases: numBases,
	}
	for i := range s.S {
		s.S[i] = make([]float64, numBases)
	}
	s.LastTimeHours = math.NaN()
	return s
}

// AdvanceTo decays every basis component of every source type's vector from
// LastTimeHours to tHours, then updates LastTimeHours. If LastTimeHours is
// non-finite (first call), it is simply set to tHours with no decay.
func (s *State) AdvanceTo(tHours float64) {
	if math.IsNaN(s.LastTimeHours) || math.IsInf(s.LastTimeHours, 0) {
		s.LastTimeHours = tHours
		return
	}
	dh := tHours - s.LastTimeHours
	if dh > 0 {
		for _, row := range s.S {
			for b := range row {
				row[b] *= basis.Decay(dh, basis.Timescales[b])
			}
		}
	}
	s.LastTimeHours = tHours
}

// Increment adds 1 to every basis component of source type sourceType's
// vector, modeling the shared per-event impulse applied at an event of that
// type (the kernel differs only in decay timescale tau, not in impulse size).
func (s *State) Increment(sourceType int) {
	row := s.S[sourceType]
	for b := range row {
		row[b]++
	}
}

// Vector returns the live (not copied) basis vector for sourceType.
func (s *State) Vector(sourceType int) []float64 {
	return s.S[sourceType]
}
