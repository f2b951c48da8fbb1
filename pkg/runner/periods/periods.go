// Package periods lists logged periods.
package periods

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/cycle/pkg/app"
	"tableflip.dev/cycle/pkg/interval"
	"tableflip.dev/cycle/pkg/printers"
	"tableflip.dev/cycle/pkg/timeutil"
)

type Periods struct {
	Session *app.Session
	Printer *printers.PrettyPrint
	Window  timeutil.Span
	Label   string
	Now     time.Time
	// Print, when set, receives the report instead of the pretty printer.
	Print func(v interface{}) error
}

type periodJSON struct {
	ID        string `json:"id"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
	Days      int    `json:"days"`
	Ongoing   bool   `json:"ongoing,omitempty"`
}

func (p *Periods) Do(ctx context.Context) error {
	if p.Session == nil {
		return errors.New("can not list periods, no session")
	}
	if p.Printer == nil {
		p.Printer = &printers.PrettyPrint{}
	}
	report := p.Session.Report(p.Window.Before(p.Now), p.Now)

	if p.Print != nil {
		out := make([]periodJSON, 0, len(report.Periods))
		for _, per := range report.Periods {
			j := periodJSON{ID: per.ID, StartDate: interval.Key(per.Start), Days: per.Range().Days(), Ongoing: per.Ongoing}
			if !per.Ongoing {
				j.EndDate = interval.Key(per.End)
			}
			out = append(out, j)
		}
		return p.Print(out)
	}

	p.Printer.TitleWithCount("Periods, last "+p.Label, len(report.Periods))
	p.Printer.Periods(report.Periods...)
	return nil
}
