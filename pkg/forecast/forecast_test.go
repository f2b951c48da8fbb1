package forecast

import (
	"testing"
	"time"

	"tableflip.dev/cycle/pkg/interval"
	"tableflip.dev/cycle/pkg/period"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func history() []period.Period {
	return []period.Period{
		{ID: "c", Start: day(2026, 9, 26), End: day(2026, 9, 30)},
		{ID: "a", Start: day(2026, 8, 1), End: day(2026, 8, 5)},
		{ID: "b", Start: day(2026, 8, 29), End: day(2026, 9, 2)},
	}
}

func TestComputeAverages(t *testing.T) {
	s := Compute(history())
	if s.CycleLength != 28 {
		t.Fatalf("expected cycle length 28, got %d", s.CycleLength)
	}
	if s.PeriodLength != 5 {
		t.Fatalf("expected period length 5, got %d", s.PeriodLength)
	}
	if s.Cycles != 2 {
		t.Fatalf("expected 2 cycles, got %d", s.Cycles)
	}
	if !s.LastStart.Equal(day(2026, 9, 26)) {
		t.Fatalf("expected last start 2026-09-26, got %s", s.LastStart)
	}
}

func TestComputeDefaultsAndClamp(t *testing.T) {
	s := Compute(nil)
	if s.CycleLength != DefaultCycleLength || s.PeriodLength != DefaultPeriodLength {
		t.Fatalf("expected defaults, got %+v", s)
	}

	s = Compute([]period.Period{{ID: "x", Start: day(2026, 10, 17), End: day(2026, 10, 19), Ongoing: true}})
	if s.CycleLength != DefaultCycleLength || s.PeriodLength != DefaultPeriodLength {
		t.Fatalf("expected defaults for a single ongoing period, got %+v", s)
	}

	s = Compute([]period.Period{
		{ID: "a", Start: day(2026, 1, 1), End: day(2026, 1, 4)},
		{ID: "b", Start: day(2026, 3, 2), End: day(2026, 3, 5)},
	})
	if s.CycleLength != MaxCycleLength {
		t.Fatalf("expected cycle length clamped to %d, got %d", MaxCycleLength, s.CycleLength)
	}
	if s.PeriodLength != 4 {
		t.Fatalf("expected period length 4, got %d", s.PeriodLength)
	}
}

func TestPredict(t *testing.T) {
	got := Predict(history(), day(2026, 10, 19), 3)
	want := []string{
		"[2026-10-24, 2026-10-28]",
		"[2026-11-21, 2026-11-25]",
		"[2026-12-19, 2026-12-23]",
		"[2027-01-16, 2027-01-20]",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d predictions, got %d: %v", len(want), len(got), got)
	}
	for i, p := range got {
		if p.Range().String() != want[i] {
			t.Fatalf("prediction %d: expected %s, got %s", i, want[i], p.Range())
		}
	}
}

func TestPredictSkipsPast(t *testing.T) {
	got := Predict(history(), day(2026, 12, 1), 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 prediction, got %d: %v", len(got), got)
	}
	if !interval.SameDay(got[0].Start, day(2026, 12, 19)) {
		t.Fatalf("expected prediction on 2026-12-19, got %s", got[0].Start)
	}
}

func TestPredictNothing(t *testing.T) {
	if got := Predict(nil, day(2026, 10, 19), 3); got != nil {
		t.Fatalf("expected no predictions without history, got %v", got)
	}
	if got := Predict(history(), day(2026, 10, 19), 0); got != nil {
		t.Fatalf("expected no predictions for zero months, got %v", got)
	}
}

func TestPhase(t *testing.T) {
	tests := []struct {
		today time.Time
		want  string
	}{
		{day(2026, 9, 28), period.PhaseMenstrual},
		{day(2026, 10, 5), period.PhaseFollicular},
		{day(2026, 10, 9), period.PhaseOvulation},
		{day(2026, 10, 19), period.PhaseLuteal},
		{day(2026, 10, 30), period.PhaseUnknown},
	}
	for _, tt := range tests {
		if got := Phase(history(), tt.today); got != tt.want {
			t.Fatalf("%s: expected %s, got %s", interval.Key(tt.today), tt.want, got)
		}
	}
	if got := Phase(nil, day(2026, 10, 19)); got != period.PhaseUnknown {
		t.Fatalf("expected unknown without history, got %s", got)
	}
}

func TestPhaseOngoing(t *testing.T) {
	periods := append(history(), period.Period{ID: "d", Start: day(2026, 10, 18), End: day(2026, 10, 19), Ongoing: true})
	if got := Phase(periods, day(2026, 10, 19)); got != period.PhaseMenstrual {
		t.Fatalf("expected menstrual during an ongoing period, got %s", got)
	}
}
