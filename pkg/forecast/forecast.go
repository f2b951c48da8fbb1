// Package forecast derives cycle statistics, predicted periods and the
// current phase from logged periods. The local store uses it to answer the
// prediction and status reads a remote service would otherwise compute.
package forecast

import (
	"math"
	"sort"
	"time"

	"tableflip.dev/cycle/pkg/calendar"
	"tableflip.dev/cycle/pkg/interval"
	"tableflip.dev/cycle/pkg/period"
)

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
	MinCycleLength      = 21
	MaxCycleLength      = 45

	// lutealLength is the usual number of days from ovulation to the next period.
	lutealLength = 14
)

// Stats summarizes the logged history.
type Stats struct {
	CycleLength  int
	PeriodLength int
	LastStart    time.Time
	// Cycles is the number of start-to-start gaps the averages were taken over.
	Cycles int
}

// Compute averages cycle and period lengths over periods. Missing history
// falls back to the defaults and the cycle length is clamped to a plausible
// range.
func Compute(periods []period.Period) Stats {
	s := Stats{CycleLength: DefaultCycleLength, PeriodLength: DefaultPeriodLength}
	if len(periods) == 0 {
		return s
	}
	sorted := sortedByStart(periods)
	s.LastStart = interval.Day(sorted[len(sorted)-1].Start)

	gaps := 0
	for i := 1; i < len(sorted); i++ {
		gaps += daysBetween(sorted[i-1].Start, sorted[i].Start)
		s.Cycles++
	}
	if s.Cycles > 0 {
		s.CycleLength = clamp(round(float64(gaps)/float64(s.Cycles)), MinCycleLength, MaxCycleLength)
	}

	total, n := 0, 0
	for _, p := range sorted {
		if p.Ongoing {
			continue
		}
		total += p.Range().Days()
		n++
	}
	if n > 0 {
		s.PeriodLength = round(float64(total) / float64(n))
	}
	return s
}

// Predict steps forward one cycle at a time from the latest logged start and
// returns the predicted periods that end on or after today and start no later
// than monthsAhead months from today.
func Predict(periods []period.Period, today time.Time, monthsAhead int) []period.Prediction {
	if len(periods) == 0 || monthsAhead <= 0 {
		return nil
	}
	today = interval.Day(today)
	s := Compute(periods)
	horizon := calendar.AddMonths(today, monthsAhead)
	latest := latestEnd(periods)

	var out []period.Prediction
	for start := s.LastStart.AddDate(0, 0, s.CycleLength); !start.After(horizon); start = start.AddDate(0, 0, s.CycleLength) {
		end := start.AddDate(0, 0, s.PeriodLength-1)
		if end.Before(today) || !start.After(latest) {
			continue
		}
		out = append(out, period.Prediction{Start: start, End: end})
	}
	return out
}

// Phase reports where today falls in the current cycle. A cycle that has run
// past its expected length reports PhaseUnknown.
func Phase(periods []period.Period, today time.Time) string {
	if len(periods) == 0 {
		return period.PhaseUnknown
	}
	today = interval.Day(today)
	sorted := sortedByStart(periods)
	last := sorted[len(sorted)-1]
	if last.Range().Contains(today) {
		return period.PhaseMenstrual
	}
	s := Compute(periods)
	day := daysBetween(last.Start, today)
	if day < 0 {
		return period.PhaseUnknown
	}
	ovulation := s.CycleLength - lutealLength
	switch {
	case day < ovulation-1:
		return period.PhaseFollicular
	case day <= ovulation+1:
		return period.PhaseOvulation
	case day < s.CycleLength:
		return period.PhaseLuteal
	default:
		return period.PhaseUnknown
	}
}

func sortedByStart(periods []period.Period) []period.Period {
	out := append([]period.Period(nil), periods...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func latestEnd(periods []period.Period) time.Time {
	var latest time.Time
	for _, p := range periods {
		if end := interval.Day(p.End); end.After(latest) {
			latest = end
		}
	}
	return latest
}

func daysBetween(a, b time.Time) int {
	a, b = interval.Day(a), interval.Day(b)
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func round(v float64) int {
	return int(math.Round(v))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
