// Package interval provides calendar-day interval math used to validate and
// render logged periods. Both bounds of a Range are inclusive calendar days.
package interval

import (
	"fmt"
	"time"
)

const layoutISO = "2006-01-02"

// Range is a closed interval of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// Day strips the time of day from t, keeping its location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// New returns the range spanning both days regardless of argument order.
func New(a, b time.Time) Range {
	a, b = Day(a), Day(b)
	if b.Before(a) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// Single returns the one-day range [d, d].
func Single(d time.Time) Range {
	return New(d, d)
}

// Key formats t as a YYYY-MM-DD day key.
func Key(t time.Time) string {
	return t.Format(layoutISO)
}

// ParseDay parses a YYYY-MM-DD date in loc.
func ParseDay(v string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(layoutISO, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("interval: parse day %q: %w", v, err)
	}
	return t, nil
}

// NextDay returns the calendar day after t.
func NextDay(t time.Time) time.Time {
	return Day(t).AddDate(0, 0, 1)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// Contains reports whether d falls within the range.
func (r Range) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Days is the number of calendar days in the range.
func (r Range) Days() int {
	n := 0
	for d := Day(r.Start); !d.After(Day(r.End)); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", Key(r.Start), Key(r.End))
}

// Overlaps reports whether a and b share at least one day.
func Overlaps(a, b Range) bool {
	return !Day(a.Start).After(Day(b.End)) && !Day(b.Start).After(Day(a.End))
}

// IsAdjacent reports whether one range starts exactly one day after the other
// ends.
func IsAdjacent(a, b Range) bool {
	return SameDay(Day(a.Start), NextDay(b.End)) || SameDay(Day(b.Start), NextDay(a.End))
}

// DaySet is a set of day keys for constant-time membership tests.
type DaySet map[string]struct{}

// Materialize expands ranges into the set of days they cover.
func Materialize(ranges ...Range) DaySet {
	set := make(DaySet)
	for _, r := range ranges {
		for d := Day(r.Start); !d.After(Day(r.End)); d = d.AddDate(0, 0, 1) {
			set[Key(d)] = struct{}{}
		}
	}
	return set
}

// Has reports whether the day of t is in the set.
func (s DaySet) Has(t time.Time) bool {
	_, ok := s[Key(t)]
	return ok
}

// Len is the number of days in the set.
func (s DaySet) Len() int {
	return len(s)
}
