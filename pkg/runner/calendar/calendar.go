// Package calendar prints the months around a date with logged and predicted
// periods marked.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/cycle/pkg/app"
	cal "tableflip.dev/cycle/pkg/calendar"
	"tableflip.dev/cycle/pkg/printers"
	"tableflip.dev/cycle/pkg/window"
)

// maxExtensions bounds how far the window grows to reach a requested month.
const maxExtensions = 40

type Calendar struct {
	Session *app.Session
	Printer *printers.PrettyPrint
	Options cal.Options
	On      time.Time
	Before  int
	After   int
	Legend  bool
}

func (c *Calendar) Do(ctx context.Context) error {
	if c.Session == nil {
		return errors.New("can not show calendar, no session")
	}
	if c.Printer == nil {
		c.Printer = &printers.PrettyPrint{}
	}
	if c.Before < 0 || c.After < 0 {
		return fmt.Errorf("months before and after must not be negative")
	}

	first := cal.AddMonths(c.On, -c.Before)
	last := cal.AddMonths(c.On, c.After)
	if err := c.cover(ctx, first, last); err != nil {
		return err
	}

	w := c.Session.Window.Window()
	from, to := w.Locate(first), w.Locate(last)
	if from < 0 || to < 0 {
		return fmt.Errorf("months %s..%s are outside the calendar", cal.ID(first), cal.ID(last))
	}

	c.Printer.Calendar(w.Months[from:to+1], c.Session.Marker(), c.Options)
	if c.Legend {
		c.Printer.Legend(c.Options)
	}
	return nil
}

// cover grows the window until it holds both first and last.
func (c *Calendar) cover(ctx context.Context, first, last time.Time) error {
	m := c.Session.Window
	for i := 0; i < maxExtensions; i++ {
		w := m.Window()
		if w.Len() == 0 {
			return window.ErrNotInitialized
		}
		switch {
		case w.Locate(first) < 0 && first.Before(w.Months[0].Date):
			if err := m.ExtendPast(ctx); err != nil {
				return err
			}
		case w.Locate(last) < 0 && last.After(w.Months[w.Len()-1].Date):
			if err := m.ExtendFuture(ctx); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return fmt.Errorf("months %s..%s are too far from today", cal.ID(first), cal.ID(last))
}
