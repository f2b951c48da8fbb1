package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/cycle/pkg/commands/options"
)

var (
	oo      = &options.OutputOptions{}
	logging = &options.LoggingOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "cycle",
		Short: base.Wrap80("Track periods and see predictions on a calendar from the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddLoggingArgs(cmd, logging)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addCalendar(topLevel)
	addPeriods(topLevel)
	addLog(topLevel)
	addDelete(topLevel)
	addStatus(topLevel)
	addKey(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
}
