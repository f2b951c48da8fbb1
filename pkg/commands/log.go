package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/cycle/pkg/commands/options"
	"tableflip.dev/cycle/pkg/printers"
	"tableflip.dev/cycle/pkg/runner/log"
)

func addLog(topLevel *cobra.Command) {
	lo := &options.LogOptions{}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a period.",
		Example: `
cycle log
cycle log --start 10/1 --end 10/5
cycle log --start 2026-10-1 --days 5
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			start, end, err := lo.Range(time.Now())
			if err != nil {
				return err
			}

			ctx := context.Background()
			s, _, _, err := openSession(ctx, &printers.PrettyPrint{})
			if err != nil {
				return err
			}
			defer s.Close()

			l := log.Log{
				Session: s,
				Start:   start,
				End:     end,
			}
			return l.Do(ctx)
		},
	}

	options.AddLogArgs(cmd, lo)

	topLevel.AddCommand(cmd)
}
