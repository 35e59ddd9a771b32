package features

import (
	"math"
	"testing"
	"time"
)

func TestHourOfDay_Midnight(t *testing.T) {
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if h := HourOfDay(ts); math.Abs(h) > 1e-9 {
		t.Errorf("expected hour 0, got %v", h)
	}
}

func TestHourOfDay_Noon(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC).UnixMilli()
	if h := HourOfDay(ts); math.Abs(h-12.5) > 1e-9 {
		t.Errorf("expected hour 12.5, got %v", h)
	}
}

func TestDayOfWeek_KnownDate(t *testing.T) {
	// 2024-03-01 is a Friday (weekday 5).
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if d := DayOfWeek(ts); d != 5 {
		t.Errorf("expected weekday 5 (Friday), got %d", d)
	}
}

func TestVector_FirstComponentIsIntercept(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC).UnixMilli()
	v := Vector(ts)
	if v[0] != 1 {
		t.Errorf("expected intercept 1, got %v", v[0])
	}
	if len(v) != NumFeatures {
		t.Errorf("expected %d features, got %d", NumFeatures, len(v))
	}
}

func TestVector_SinCosIdentities(t *testing.T) {
	ts := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC).UnixMilli()
	v := Vector(ts)
	if s := v[1]*v[1] + v[2]*v[2]; math.Abs(s-1) > 1e-9 {
		t.Errorf("hour sin/cos should satisfy sin^2+cos^2=1, got %v", s)
	}
	if s := v[5]*v[5] + v[6]*v[6]; math.Abs(s-1) > 1e-9 {
		t.Errorf("dow sin/cos should satisfy sin^2+cos^2=1, got %v", s)
	}
}
