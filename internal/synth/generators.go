package synth

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lifetracker/eventmodel/internal/eventlog"
)

func hoursToMs(h float64) int64 { return int64(h * 3_600_000) }

// HomogeneousPoisson generates a homogeneous Poisson process of the given
// type over [0, horizonHours) at a constant rate, via Exponential
// inter-arrival times (spec scenario S3).
func HomogeneousPoisson(rng *rand.Rand, typeName string, ratePerHour, horizonHours float64) []eventlog.Event {
	exp := distuv.Exponential{Rate: ratePerHour, Src: rng}
	var events []eventlog.Event
	t := 0.0
	for {
		t += exp.Rand()
		if t >= horizonHours {
			break
		}
		events = append(events, eventlog.Event{Type: typeName, TimeMs: hoursToMs(t)})
	}
	return events
}

// DiurnalPoisson generates an inhomogeneous Poisson process peaking at
// peakHour each day via thinning, with rate(t) =
// baseRatePerHour*(1+amplitude*cos(2*pi*(hourOfDay(t)-peakHour)/24))
// (spec scenario S5).
func DiurnalPoisson(rng *rand.Rand, typeName string, baseRatePerHour, amplitude, peakHour, horizonHours float64) []eventlog.Event {
	maxRate := baseRatePerHour * (1 + amplitude)
	exp := distuv.Exponential{Rate: maxRate, Src: rng}
	var events []eventlog.Event
	t := 0.0
	for {
		t += exp.Rand()
		if t >= horizonHours {
			break
		}
		hod := math.Mod(t, 24)
		rate := baseRatePerHour * (1 + amplitude*math.Cos(2*math.Pi*(hod-peakHour)/24))
		if rng.Float64()*maxRate <= rate {
			events = append(events, eventlog.Event{Type: typeName, TimeMs: hoursToMs(t)})
		}
	}
	return events
}

// SelfExcitingChildren generates one child event of childType per event in
// parents, offset by a lag ~ Exponential(1/meanLagHours) (spec scenario S4:
// "for each A, spawn one B with lag ~Exp(1h)").
func SelfExcitingChildren(rng *rand.Rand, parents []eventlog.Event, childType string, meanLagHours float64) []eventlog.Event {
	exp := distuv.Exponential{Rate: 1.0 / meanLagHours, Src: rng}
	children := make([]eventlog.Event, 0, len(parents))
	for _, p := range parents {
		lag := exp.Rand()
		children = append(children, eventlog.Event{Type: childType, TimeMs: p.TimeMs + hoursToMs(lag)})
	}
	return children
}
