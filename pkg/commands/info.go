package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/cycle/pkg/printers"
	"tableflip.dev/cycle/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where periods are stored.",
		Example: `
cycle info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			s, cfg, _, err := openSession(ctx, &printers.PrettyPrint{})
			if err != nil {
				return err
			}
			defer s.Close()

			n := info.Info{
				Config:  cfg,
				Session: s,
			}
			return n.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
