package options

import (
	"github.com/spf13/cobra"
)

// CalendarOptions
type CalendarOptions struct {
	Before int
	After  int
	Legend bool
}

func AddCalendarArgs(cmd *cobra.Command, o *CalendarOptions) {
	cmd.Flags().IntVarP(&o.Before, "before", "b", 1,
		"Months to show before the centered month.")
	cmd.Flags().IntVarP(&o.After, "after", "a", 1,
		"Months to show after the centered month.")
	cmd.Flags().BoolVar(&o.Legend, "legend", false,
		"Print what each day style means.")
}
