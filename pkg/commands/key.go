package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/cycle/pkg/printers"
	"tableflip.dev/cycle/pkg/runner/key"
)

func addKey(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Show what the calendar day styles mean.",
		Example: `
cycle key
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			pp := &printers.PrettyPrint{}
			k := key.Key{Printer: pp}
			if s, _, th, err := openSession(ctx, pp); err == nil {
				k.Phase = th.phase
				s.Close()
			}
			return k.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
