// Package log records a new period.
package log

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/cycle/pkg/app"
	"tableflip.dev/cycle/pkg/interaction"
	"tableflip.dev/cycle/pkg/interval"
)

// ErrRejected is returned when the period was refused because it overlaps or
// touches a logged period. The reason has already been shown as an alert.
var ErrRejected = errors.New("period not logged")

type Log struct {
	Session *app.Session
	Start   time.Time
	End     time.Time
}

func (n *Log) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not log, no session")
	}
	r := interval.New(n.Start, n.End)
	res, err := n.Session.LogPeriod(ctx, r.Start, r.End)
	if err != nil {
		return err
	}
	switch res {
	case interaction.Saved:
		_, _ = fmt.Fprintf(color.Output, "Logged %s (%d days).\n", r, r.Days())
		return nil
	case interaction.RejectedOverlap, interaction.RejectedAdjacent:
		return fmt.Errorf("%w: %s", ErrRejected, res)
	default:
		return fmt.Errorf("period not logged: %s", res)
	}
}
