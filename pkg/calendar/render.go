package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/cycle/pkg/period"
)

const weekHeader = "Mo Tu We Th Fr Sa Su"

// Mark flags how a day should be drawn.
type Mark int

// MarkNone draws a plain day.
const MarkNone Mark = 0

const (
	MarkPeriod Mark = 1 << iota
	MarkPredicted
	MarkToday
	MarkSelected
)

// Marker reports the marks for a day.
type Marker func(day time.Time) Mark

// Options controls calendar styling.
type Options struct {
	TitleStyle     lipgloss.Style
	HeaderStyle    lipgloss.Style
	EmptyStyle     lipgloss.Style
	PeriodStyle    lipgloss.Style
	PredictedStyle lipgloss.Style
	TodayStyle     lipgloss.Style
	SelectedStyle  lipgloss.Style
	ShowHeader     bool
}

// DefaultOptions returns the styling used for calendar rendering.
func DefaultOptions() Options {
	return Options{
		TitleStyle:     lipgloss.NewStyle().Bold(true),
		HeaderStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		EmptyStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		PeriodStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("161")),
		PredictedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("211")).Italic(true),
		TodayStyle:     lipgloss.NewStyle().Underline(true),
		SelectedStyle:  lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")),
		ShowHeader:     true,
	}
}

// Render produces a multi-line calendar string for the month.
func Render(m Month, marker Marker, opts Options) string {
	if m.Date.IsZero() {
		return ""
	}
	lines := []string{opts.TitleStyle.Render(center(m.Title(), len(weekHeader)))}
	if opts.ShowHeader {
		lines = append(lines, opts.HeaderStyle.Render(weekHeader))
	}
	for _, week := range m.Weeks() {
		cells := make([]string, 0, len(week))
		for _, c := range week {
			if c.Padding {
				cells = append(cells, opts.EmptyStyle.Render("  "))
				continue
			}
			mark := MarkNone
			if marker != nil {
				mark = marker(c.Date)
			}
			cells = append(cells, renderDay(c.Day, mark, opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

func renderDay(day int, mark Mark, opts Options) string {
	text := fmt.Sprintf("%2d", day)

	style := opts.EmptyStyle
	switch {
	case mark&MarkPeriod != 0:
		style = opts.PeriodStyle
	case mark&MarkPredicted != 0:
		style = opts.PredictedStyle
	}
	if mark&MarkToday != 0 {
		style = style.Inherit(opts.TodayStyle)
	}
	if mark&MarkSelected != 0 {
		style = style.Inherit(opts.SelectedStyle)
	}
	return style.Render(text)
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-left-len(s))
}

var phaseAccents = map[string]lipgloss.Color{
	period.PhaseMenstrual:  lipgloss.Color("161"),
	period.PhaseFollicular: lipgloss.Color("35"),
	period.PhaseOvulation:  lipgloss.Color("214"),
	period.PhaseLuteal:     lipgloss.Color("99"),
}

// ForPhase returns DefaultOptions with the title tinted for the cycle phase.
// Unknown phases keep the default styling.
func ForPhase(phase string) Options {
	opts := DefaultOptions()
	if accent, ok := phaseAccents[phase]; ok {
		opts.TitleStyle = opts.TitleStyle.Foreground(accent)
	}
	return opts
}
