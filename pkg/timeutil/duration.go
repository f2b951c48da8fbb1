package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultWindow is the fallback history window used when none is provided.
	DefaultWindow = "1y"
)

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitMap       = map[string]Span{
		"d":      {Days: 1},
		"day":    {Days: 1},
		"days":   {Days: 1},
		"w":      {Days: 7},
		"wk":     {Days: 7},
		"wks":    {Days: 7},
		"week":   {Days: 7},
		"weeks":  {Days: 7},
		"m":      {Months: 1},
		"mo":     {Months: 1},
		"month":  {Months: 1},
		"months": {Months: 1},
		"y":      {Years: 1},
		"yr":     {Years: 1},
		"year":   {Years: 1},
		"years":  {Years: 1},
	}
)

// Span is a calendar distance. Months and years follow the calendar rather
// than a fixed number of hours.
type Span struct {
	Years  int
	Months int
	Days   int
}

// Before returns the day span before t.
func (s Span) Before(t time.Time) time.Time {
	return t.AddDate(-s.Years, -s.Months, -s.Days)
}

// After returns the day span after t.
func (s Span) After(t time.Time) time.Time {
	return t.AddDate(s.Years, s.Months, s.Days)
}

func (s Span) add(o Span, n int) Span {
	return Span{Years: s.Years + o.Years*n, Months: s.Months + o.Months*n, Days: s.Days + o.Days*n}
}

// ParseWindow parses a human-friendly span (for example "6m", "2w", or
// "1y3m") and returns it along with a canonical, compact representation.
// When the input is empty, the default window of one year is used.
func ParseWindow(input string) (Span, string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		trimmed = DefaultWindow
	}

	remaining := strings.ToLower(trimmed)
	total := Span{}
	for len(remaining) > 0 {
		matches := windowPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return Span{}, "", fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.Atoi(matches[1])
		if err != nil {
			return Span{}, "", fmt.Errorf("invalid window value %q: %w", matches[1], err)
		}
		unit, ok := unitMap[matches[2]]
		if !ok {
			return Span{}, "", fmt.Errorf("unsupported window unit %q", matches[2])
		}
		total = total.add(unit, value)

		remaining = remaining[len(matches[0]):]
	}

	if total == (Span{}) {
		return Span{}, "", fmt.Errorf("window must be greater than zero")
	}

	return total, FormatWindow(total), nil
}

// FormatWindow renders a span using year/month/week/day tokens. Months roll
// up into years and days into weeks.
func FormatWindow(s Span) string {
	months := s.Years*12 + s.Months
	years, months := months/12, months%12
	weeks, days := s.Days/7, s.Days%7

	var parts []string
	for _, p := range []struct {
		n     int
		label string
	}{{years, "y"}, {months, "m"}, {weeks, "w"}, {days, "d"}} {
		if p.n > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", p.n, p.label))
		}
	}
	if len(parts) == 0 {
		return "0d"
	}
	return strings.Join(parts, "")
}
