// Package features computes the baseline rhythm feature vector (hour-of-day
// and day-of-week harmonics) used as the GLM's baseline predictors.
package features

import (
	"math"
	"time"
)

// NumFeatures is the length of the baseline feature vector.
const NumFeatures = 7

// HourOfDay returns the UTC hour-with-fraction in [0, 24) for an absolute
// time in milliseconds.
func HourOfDay(timeMs int64) float64 {
	t := time.UnixMilli(timeMs).UTC()
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600 + float64(t.Nanosecond())/3.6e12
}

// DayOfWeek returns the UTC day of week in {0..6}, Sunday = 0.
func DayOfWeek(timeMs int64) int {
	return int(time.UnixMilli(timeMs).UTC().Weekday())
}

// Vector computes [1, sin(2*pi*h/24), cos(2*pi*h/24), sin(4*pi*h/24),
// cos(4*pi*h/24), sin(2*pi*d/7), cos(2*pi*d/7)] for an absolute time in ms.
func Vector(timeMs int64) [NumFeatures]float64 {
	h := HourOfDay(timeMs)
	d := float64(DayOfWeek(timeMs))

	return [NumFeatures]float64{
		1,
		math.Sin(2 * math.Pi * h / 24),
		math.Cos(2 * math.Pi * h / 24),
		math.Sin(4 * math.Pi * h / 24),
		math.Cos(4 * math.Pi * h / 24),
		math.Sin(2 * math.Pi * d / 7),
		math.Cos(2 * math.Pi * d / 7),
	}
}
