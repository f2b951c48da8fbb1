package app

import (
	"time"

	"tableflip.dev/cycle/pkg/forecast"
	"tableflip.dev/cycle/pkg/interval"
	"tableflip.dev/cycle/pkg/period"
)

// ReportResult summarizes the cycle history between two days.
type ReportResult struct {
	Since   time.Time
	Until   time.Time
	Periods []period.Period
	Stats   forecast.Stats
	Phase   string
	// Next is the first prediction starting on or after today, if any.
	Next *period.Prediction
	// DaysUntilNext counts from today to Next.Start.
	DaysUntilNext int
}

// Report returns the periods overlapping [since, until] together with the
// statistics over the whole history and the next predicted period.
func (s *Session) Report(since, until time.Time) ReportResult {
	if since.After(until) {
		since, until = until, since
	}
	snap := s.Repository.Snapshot()
	bounds := interval.New(since, until)

	res := ReportResult{
		Since: bounds.Start,
		Until: bounds.End,
		Stats: forecast.Compute(snap.Periods),
		Phase: snap.Phase,
	}
	for _, p := range snap.Periods {
		if interval.Overlaps(p.Range(), bounds) {
			res.Periods = append(res.Periods, p)
		}
	}

	today := interval.Day(s.now())
	for _, p := range snap.Predictions {
		if p.Start.Before(today) {
			continue
		}
		if res.Next == nil || p.Start.Before(res.Next.Start) {
			next := p
			res.Next = &next
		}
	}
	if res.Next != nil {
		res.DaysUntilNext = int(res.Next.Start.Sub(today).Hours()/24 + 0.5)
	}
	return res
}
