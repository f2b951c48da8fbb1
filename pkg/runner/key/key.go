// Package key provides CLI helpers to display the calendar legend.
package key

import (
	"context"

	"tableflip.dev/cycle/pkg/calendar"
	"tableflip.dev/cycle/pkg/printers"
)

// Key prints what each calendar day style means.
type Key struct {
	Phase   string
	Printer *printers.PrettyPrint
}

// Do renders the legend in the styling for the current phase.
func (k *Key) Do(_ context.Context) error {
	if k.Printer == nil {
		k.Printer = &printers.PrettyPrint{}
	}
	k.Printer.NewLine()
	k.Printer.Legend(calendar.ForPhase(k.Phase))
	k.Printer.NewLine()
	return nil
}
