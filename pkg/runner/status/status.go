// Package status prints the current cycle phase, averages and the next
// predicted period.
package status

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/cycle/pkg/app"
	"tableflip.dev/cycle/pkg/interval"
	"tableflip.dev/cycle/pkg/printers"
)

type Status struct {
	Session *app.Session
	Printer *printers.PrettyPrint
	Now     time.Time
	// Print, when set, receives the status instead of the pretty printer.
	Print func(v interface{}) error
}

type statusJSON struct {
	Phase         string `json:"phase"`
	CycleLength   int    `json:"cycleLength"`
	PeriodLength  int    `json:"periodLength"`
	NextStart     string `json:"nextStart,omitempty"`
	NextEnd       string `json:"nextEnd,omitempty"`
	DaysUntilNext *int   `json:"daysUntilNext,omitempty"`
}

func (s *Status) Do(ctx context.Context) error {
	if s.Session == nil {
		return errors.New("can not get status, no session")
	}
	if s.Printer == nil {
		s.Printer = &printers.PrettyPrint{}
	}
	report := s.Session.Report(s.Now, s.Now)

	if s.Print != nil {
		out := statusJSON{
			Phase:        report.Phase,
			CycleLength:  report.Stats.CycleLength,
			PeriodLength: report.Stats.PeriodLength,
		}
		if report.Next != nil {
			days := report.DaysUntilNext
			out.NextStart = interval.Key(report.Next.Start)
			out.NextEnd = interval.Key(report.Next.End)
			out.DaysUntilNext = &days
		}
		return s.Print(out)
	}

	s.Printer.Phase(report.Phase)
	s.Printer.Title("Averages")
	s.Printer.Printf("  cycle:  %d days\n  period: %d days\n", report.Stats.CycleLength, report.Stats.PeriodLength)
	s.Printer.NewLine()
	s.Printer.Title("Upcoming")
	s.Printer.Predictions(s.Session.Repository.Predictions()...)
	if report.Next != nil {
		s.Printer.Printf("Next period in %d days.\n", report.DaysUntilNext)
	}
	return nil
}
