package commands

import (
	"context"
	"time"

	"tableflip.dev/cycle/pkg/app"
	"tableflip.dev/cycle/pkg/calendar"
	"tableflip.dev/cycle/pkg/interaction"
	"tableflip.dev/cycle/pkg/printers"
	"tableflip.dev/cycle/pkg/repository"
	"tableflip.dev/cycle/pkg/store"
)

// theme remembers the phase reported by the last load.
type theme struct {
	phase string
}

func (t *theme) SetPhase(phase string) { t.phase = phase }

func (t *theme) Options() calendar.Options { return calendar.ForPhase(t.phase) }

var _ repository.ThemeSelector = (*theme)(nil)

// openSession loads config, opens the configured store and mounts a session
// whose alerts go to the pretty printer.
func openSession(ctx context.Context, pp *printers.PrettyPrint) (*app.Session, store.Config, *theme, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logging.Configure(cfg.LogLevel())
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := store.Open(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	th := &theme{}
	s, err := app.Open(ctx, st, app.Options{
		Alerter:     interaction.AlerterFunc(pp.Alert),
		Theme:       th,
		MonthsAhead: cfg.PredictionMonths(),
		Now:         time.Now,
		Log:         log,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return s, cfg, th, nil
}
