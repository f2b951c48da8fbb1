package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/cycle/pkg/commands/options"
	"tableflip.dev/cycle/pkg/printers"
	"tableflip.dev/cycle/pkg/runner/periods"
	"tableflip.dev/cycle/pkg/timeutil"
)

func addPeriods(topLevel *cobra.Command) {
	ido := &options.IDOptions{}
	wo := &options.WindowOptions{}

	cmd := &cobra.Command{
		Use:     "periods",
		Aliases: []string{"ls"},
		Short:   "List logged periods.",
		Example: `
cycle periods
cycle periods --window 6m --show-id
cycle periods --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			span, label, err := timeutil.ParseWindow(wo.Window)
			if err != nil {
				return oo.HandleError(err)
			}

			ctx := context.Background()
			pp := &printers.PrettyPrint{ShowID: ido.ShowID}
			s, _, _, err := openSession(ctx, pp)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			p := periods.Periods{
				Session: s,
				Printer: pp,
				Window:  span,
				Label:   label,
				Now:     time.Now(),
			}
			if oo.JSON {
				p.Print = oo.Print
			}
			return oo.HandleError(p.Do(ctx))
		},
	}

	options.AddShowIDArgs(cmd, ido)
	options.AddWindowArgs(cmd, wo)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
