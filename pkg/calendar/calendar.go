// Package calendar generates month entries for the scrolling calendar and
// renders them as text grids.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const idLayout = "2006-01"

// Cell is one slot of a month grid. Padding cells precede day 1 so the first
// real day lands under its weekday column.
type Cell struct {
	Day     int
	Date    time.Time
	Padding bool
}

// Month describes a single month of the calendar. Months are immutable once
// built.
type Month struct {
	ID         string
	Date       time.Time
	TitleMonth string
	TitleYear  string
	Cells      []Cell
}

// First returns the first day of the month containing t.
func First(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// AddMonths returns the first day of the month n months from t.
func AddMonths(t time.Time, n int) time.Time {
	first := First(t)
	return time.Date(first.Year(), first.Month()+time.Month(n), 1, 0, 0, 0, 0, first.Location())
}

// DaysIn returns the number of days in a month.
func DaysIn(month time.Time) int {
	return First(month).AddDate(0, 1, -1).Day()
}

// Offset returns the number of padding cells before day 1 with Monday as the
// first column.
func Offset(month time.Time) int {
	return (int(First(month).Weekday()) + 6) % 7
}

// ID formats the month id (YYYY-MM) for t.
func ID(t time.Time) string {
	return t.Format(idLayout)
}

// ParseID parses a YYYY-MM month id.
func ParseID(id string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(idLayout, strings.TrimSpace(id), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: parse month id %q: %w", id, err)
	}
	return t, nil
}

// NewMonth builds the month entry containing t.
func NewMonth(t time.Time) Month {
	first := First(t)
	days := DaysIn(first)
	offset := Offset(first)

	cells := make([]Cell, 0, offset+days)
	for i := 0; i < offset; i++ {
		cells = append(cells, Cell{Padding: true})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, Cell{
			Day:  d,
			Date: time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, first.Location()),
		})
	}
	return Month{
		ID:         ID(first),
		Date:       first,
		TitleMonth: first.Month().String(),
		TitleYear:  strconv.Itoa(first.Year()),
		Cells:      cells,
	}
}

// Span builds count consecutive months starting with the month containing
// start.
func Span(start time.Time, count int) []Month {
	if count <= 0 {
		return nil
	}
	months := make([]Month, 0, count)
	for i := 0; i < count; i++ {
		months = append(months, NewMonth(AddMonths(start, i)))
	}
	return months
}

// Next reports whether b is the month directly after a.
func Next(a, b Month) bool {
	return AddMonths(a.Date, 1).Equal(b.Date)
}

// Weeks splits the month cells into rows of seven, padding the last row.
func (m Month) Weeks() [][]Cell {
	var rows [][]Cell
	for i := 0; i < len(m.Cells); i += 7 {
		end := i + 7
		row := make([]Cell, 0, 7)
		if end > len(m.Cells) {
			row = append(row, m.Cells[i:]...)
			for len(row) < 7 {
				row = append(row, Cell{Padding: true})
			}
		} else {
			row = append(row, m.Cells[i:end]...)
		}
		rows = append(rows, row)
	}
	return rows
}

// Title returns "January 2006".
func (m Month) Title() string {
	return m.TitleMonth + " " + m.TitleYear
}
