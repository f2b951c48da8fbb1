package options

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// LoggingOptions
type LoggingOptions struct {
	Level string
	JSON  bool
}

func AddLoggingArgs(cmd *cobra.Command, o *LoggingOptions) {
	cmd.PersistentFlags().StringVar(&o.Level, "log-level", "",
		"Log level: trace, debug, info, warn or error. Overrides the config file.")
	cmd.PersistentFlags().BoolVar(&o.JSON, "log-json", false,
		"Write logs as JSON.")
}

// Configure sets up the standard logger. fallback is used when no level flag
// was given.
func (o *LoggingOptions) Configure(fallback string) (*logrus.Entry, error) {
	level := o.Level
	if level == "" {
		level = fallback
	}
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(lvl)
	if o.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return logrus.NewEntry(logger), nil
}
