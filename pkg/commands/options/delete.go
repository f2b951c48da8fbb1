package options

import (
	"github.com/spf13/cobra"
)

// DeleteOptions
type DeleteOptions struct {
	Yes bool
}

func AddDeleteArgs(cmd *cobra.Command, o *DeleteOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		"Delete without asking for confirmation.")
}
