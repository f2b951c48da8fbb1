package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// ParseDate reads "2026-10-19" or "10/19". A short date that would land after
// today is taken from the previous year, since periods are logged after the
// fact.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	loc := now.Location()
	t, err := time.ParseInLocation(layoutISO, s, loc)
	if err == nil {
		return t, nil
	}
	t, err = time.ParseInLocation(layoutISOShort, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-M-D or M/D", s)
	}
	t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if t.After(today) {
		t = t.AddDate(-1, 0, 0)
	}
	return t, nil
}

// OnOptions
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Center on a date, example: --on="2026-2-28" or --on="2/28".`)
}

// GetOn returns the requested date, or now when none was given.
func (o *OnOptions) GetOn(now time.Time) (time.Time, error) {
	if o.OnString == "" {
		return now, nil
	}
	return ParseDate(o.OnString, now)
}
