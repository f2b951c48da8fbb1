package printers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/cycle/pkg/calendar"
)

// monthsPerRow is how many months are printed side by side.
const monthsPerRow = 3

// Calendar prints months in rows, each rendered with marker and opts.
func (pp *PrettyPrint) Calendar(months []calendar.Month, marker calendar.Marker, opts calendar.Options) {
	gap := strings.Repeat(" ", 3)
	for i := 0; i < len(months); i += monthsPerRow {
		end := i + monthsPerRow
		if end > len(months) {
			end = len(months)
		}
		blocks := make([]string, 0, 2*(end-i))
		for j, m := range months[i:end] {
			if j > 0 {
				blocks = append(blocks, gap)
			}
			blocks = append(blocks, calendar.Render(m, marker, opts))
		}
		_, _ = fmt.Fprintln(pp.out(), lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
		pp.NewLine()
	}
}

// Legend prints what each day style means.
func (pp *PrettyPrint) Legend(opts calendar.Options) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("  Day"), bold.Sprint("Meaning"))
	tbl.AddRow(opts.PeriodStyle.Render("12"), "logged period")
	tbl.AddRow(opts.PredictedStyle.Render("12"), "predicted period")
	tbl.AddRow(opts.TodayStyle.Render("12"), "today")
	tbl.AddRow(opts.SelectedStyle.Render("12"), "selection being logged")
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.out(), tbl)
}
