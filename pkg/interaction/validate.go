package interaction

import (
	"time"

	"tableflip.dev/cycle/pkg/interval"
	"tableflip.dev/cycle/pkg/period"
)

// Verdict is the outcome of checking a candidate against logged periods.
type Verdict int

const (
	// Accept means the candidate neither overlaps nor touches a period.
	Accept Verdict = iota
	// Overlap means the candidate shares a day with a period.
	Overlap
	// Adjacent means the candidate starts or ends one day from a period.
	Adjacent
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case Overlap:
		return "overlap"
	case Adjacent:
		return "adjacent"
	default:
		return "unknown"
	}
}

// Validate checks candidate against periods in the order given. Overlap is
// checked against every period before adjacency is considered. The end of an
// ongoing period is today and never counts as a boundary for adjacency.
func Validate(candidate interval.Range, periods []period.Period, today time.Time) (Verdict, period.Period) {
	today = interval.Day(today)
	for _, p := range periods {
		if interval.Overlaps(candidate, effectiveRange(p, today)) {
			return Overlap, p
		}
	}
	for _, p := range periods {
		if p.Ongoing {
			if interval.SameDay(interval.NextDay(candidate.End), interval.Day(p.Start)) {
				return Adjacent, p
			}
			continue
		}
		if interval.IsAdjacent(candidate, p.Range()) {
			return Adjacent, p
		}
	}
	return Accept, period.Period{}
}

func effectiveRange(p period.Period, today time.Time) interval.Range {
	r := p.Range()
	if p.Ongoing && today.After(interval.Day(r.End)) {
		r.End = today
	}
	return r
}
