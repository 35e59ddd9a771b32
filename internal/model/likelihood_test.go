package model

import (
	"math"
	"testing"

	"github.com/lifetracker/eventmodel/internal/eventlog"
	"github.com/lifetracker/eventmodel/internal/window"
)

func TestEvalTarget_ZeroParamsIntegratesToWindowLength(t *testing.T) {
	windows := []window.Window{{StartMs: 0, EndMs: 10 * 3_600_000}} // 10 hours
	stream := &eventlog.Stream{
		Times:     []int64{1 * 3_600_000, 5 * 3_600_000},
		TypeIdx:   []int{0, 1},
		TypeNames: []string{"A", "B"},
	}
	params := NewParams(2, 3)

	logLik, grad := EvalTarget(0, stream, windows, params, 0, 0, 50)

	// With all-zero params, eta==0 everywhere so lambda==1 everywhere; the
	// event term for type A (matches target 0) adds clamp(0,...)=0, and the
	// integral term is -10 (window length in hours), up to quadrature error.
	if math.Abs(logLik-(-10)) > 0.05 {
		t.Errorf("expected logLik close to -10, got %v", logLik)
	}
	if grad.Theta[0] != nil {
		for _, v := range grad.Theta[0] {
			if v != 0 {
				t.Errorf("theta gradient row for target itself (s=k) must stay zero, got %v", grad.Theta[0])
			}
		}
	}
}

func TestEvalTarget_RegularizationPenalizesLogLik(t *testing.T) {
	windows := []window.Window{{StartMs: 0, EndMs: 3_600_000}}
	stream := &eventlog.Stream{TypeNames: []string{"A", "B"}}
	params := NewParams(2, 3)
	params.Theta[0][1][0] = 5.0

	llNoReg, _ := EvalTarget(0, stream, windows, params, 0, 0, 20)
	llReg, gradReg := EvalTarget(0, stream, windows, params, 0.1, 0.01, 20)

	if llReg >= llNoReg {
		t.Errorf("regularized log-likelihood (%v) should be lower than unregularized (%v)", llReg, llNoReg)
	}
	if gradReg.Theta[1][0] >= 0 {
		t.Errorf("gradient for a positive theta under L1+L2 penalty should be negative, got %v", gradReg.Theta[1][0])
	}
}

func TestEvalTarget_EmptyWindowsNoEvents(t *testing.T) {
	stream := &eventlog.Stream{TypeNames: []string{"A"}}
	params := NewParams(1, 3)
	logLik, grad := EvalTarget(0, stream, nil, params, 0, 0, 50)
	if logLik != 0 {
		t.Errorf("expected 0 log-likelihood with no windows/events, got %v", logLik)
	}
	if grad.Beta[0] != 0 {
		t.Errorf("expected zero gradient, got %v", grad.Beta)
	}
}
