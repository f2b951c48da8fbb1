package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/cycle/pkg/interaction"
	"tableflip.dev/cycle/pkg/interval"
	"tableflip.dev/cycle/pkg/period"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " period")
	default:
		_, _ = c.Fprintln(pp.out(), " periods")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Periods prints one row per logged period.
func (pp *PrettyPrint) Periods(periods ...period.Period) {
	if len(periods) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	red := color.New(color.FgHiRed)

	tbl := uitable.New()
	tbl.Separator = "  "
	header := []interface{}{bold.Sprint("Start"), bold.Sprint("End"), bold.Sprint("Days")}
	if pp.ShowID {
		header = append([]interface{}{bold.Sprint("ID")}, header...)
	}
	tbl.AddRow(header...)
	for _, p := range periods {
		end := interval.Key(p.End)
		if p.Ongoing {
			end = red.Sprint("ongoing")
		}
		row := []interface{}{interval.Key(p.Start), end, p.Range().Days()}
		if pp.ShowID {
			row = append([]interface{}{y.Sprint(p.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	tbl.RightAlign(len(header) - 1)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Predictions prints the predicted periods.
func (pp *PrettyPrint) Predictions(predictions ...period.Prediction) {
	if len(predictions) == 0 {
		pp.none()
		return
	}
	f := color.New(color.FgMagenta, color.Italic)
	for _, p := range predictions {
		_, _ = f.Fprintf(pp.out(), "  %s\n", p.Range())
	}
	pp.NewLine()
}

// Phase prints the current cycle phase.
func (pp *PrettyPrint) Phase(phase string) {
	c := color.New(color.Bold)
	switch phase {
	case period.PhaseMenstrual:
		c.Add(color.FgHiRed)
	case period.PhaseFollicular:
		c.Add(color.FgGreen)
	case period.PhaseOvulation:
		c.Add(color.FgYellow)
	case period.PhaseLuteal:
		c.Add(color.FgMagenta)
	default:
		c.Add(color.Faint)
	}
	_, _ = fmt.Fprintf(pp.out(), "Phase: %s\n", c.Sprint(phase))
}

// Alert prints an alert raised by the interaction engine.
func (pp *PrettyPrint) Alert(a interaction.Alert) {
	t := color.New(color.Bold, color.FgHiYellow)
	_, _ = t.Fprintln(pp.out(), a.Title)
	if a.Message != "" {
		_, _ = fmt.Fprintln(pp.out(), "  "+a.Message)
	}
	if len(a.Actions) > 1 {
		labels := make([]string, len(a.Actions))
		for i, act := range a.Actions {
			labels[i] = act.Label
		}
		f := color.New(color.Faint)
		_, _ = f.Fprintf(pp.out(), "  [%s]\n", strings.Join(labels, " / "))
	}
}

func (pp *PrettyPrint) Printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(pp.out(), format, a...)
}
