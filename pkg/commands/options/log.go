package options

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

// LogOptions
type LogOptions struct {
	Start string
	End   string
	Days  int
}

func AddLogArgs(cmd *cobra.Command, o *LogOptions) {
	cmd.Flags().StringVarP(&o.Start, "start", "s", "",
		`First day of the period, example: --start="2026-10-1" or --start="10/1". Defaults to today.`)
	cmd.Flags().StringVarP(&o.End, "end", "e", "",
		"Last day of the period. Defaults to the start day.")
	cmd.Flags().IntVarP(&o.Days, "days", "d", 0,
		"Length of the period in days, instead of --end.")
}

// Range resolves the flags into the first and last day of the period.
func (o *LogOptions) Range(now time.Time) (time.Time, time.Time, error) {
	if o.End != "" && o.Days > 0 {
		return time.Time{}, time.Time{}, errors.New("use either --end or --days, not both")
	}
	start := now
	if o.Start != "" {
		var err error
		if start, err = ParseDate(o.Start, now); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	end := start
	switch {
	case o.End != "":
		var err error
		if end, err = ParseDate(o.End, now); err != nil {
			return time.Time{}, time.Time{}, err
		}
	case o.Days > 0:
		end = start.AddDate(0, 0, o.Days-1)
	}
	return start, end, nil
}
