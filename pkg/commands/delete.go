package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/cycle/pkg/commands/options"
	"tableflip.dev/cycle/pkg/printers"
	"tableflip.dev/cycle/pkg/runner/remove"
)

func addDelete(topLevel *cobra.Command) {
	do := &options.DeleteOptions{}

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a logged period.",
		Args:    cobra.ExactArgs(1),
		Example: `
cycle periods --show-id
cycle delete 2f1c6f0e-8a3b-4c55-9a1e-6a1f0c2d9b7e
cycle delete 2f1c6f0e-8a3b-4c55-9a1e-6a1f0c2d9b7e --yes
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			s, _, _, err := openSession(ctx, &printers.PrettyPrint{})
			if err != nil {
				return err
			}
			defer s.Close()

			r := remove.Remove{
				Session: s,
				ID:      args[0],
				Yes:     do.Yes,
			}
			return r.Do(ctx)
		},
	}

	options.AddDeleteArgs(cmd, do)

	topLevel.AddCommand(cmd)
}
