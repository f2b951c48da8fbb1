package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/cycle/pkg/commands/options"
	"tableflip.dev/cycle/pkg/printers"
	"tableflip.dev/cycle/pkg/runner/status"
)

func addStatus(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current cycle phase and the next predicted period.",
		Example: `
cycle status
cycle status --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			pp := &printers.PrettyPrint{}
			s, _, _, err := openSession(ctx, pp)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			st := status.Status{
				Session: s,
				Printer: pp,
				Now:     time.Now(),
			}
			if oo.JSON {
				st.Print = oo.Print
			}
			return oo.HandleError(st.Do(ctx))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
