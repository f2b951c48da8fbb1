package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/cycle/pkg/commands/options"
	"tableflip.dev/cycle/pkg/printers"
	"tableflip.dev/cycle/pkg/runner/calendar"
)

func addCalendar(topLevel *cobra.Command) {
	co := &options.CalendarOptions{}
	ono := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show logged and predicted periods on a calendar.",
		Example: `
cycle calendar
cycle calendar --before 5 --after 0
cycle calendar --on 2026-1-1 --legend
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			pp := &printers.PrettyPrint{}
			s, _, th, err := openSession(ctx, pp)
			if err != nil {
				return err
			}
			defer s.Close()

			on, err := ono.GetOn(time.Now())
			if err != nil {
				return err
			}

			c := calendar.Calendar{
				Session: s,
				Printer: pp,
				Options: th.Options(),
				On:      on,
				Before:  co.Before,
				After:   co.After,
				Legend:  co.Legend,
			}
			return c.Do(ctx)
		},
	}

	options.AddCalendarArgs(cmd, co)
	options.AddOnArgs(cmd, ono)

	topLevel.AddCommand(cmd)
}
