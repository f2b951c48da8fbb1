package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/cycle/pkg/timeutil"
)

// WindowOptions
type WindowOptions struct {
	Window string
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().StringVarP(&o.Window, "window", "w", timeutil.DefaultWindow,
		`How far back to look, example: --window=6m or --window=1y2m.`)
}
