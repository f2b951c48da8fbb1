package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"tableflip.dev/cycle/pkg/calendar"
	"tableflip.dev/cycle/pkg/interaction"
	"tableflip.dev/cycle/pkg/interval"
	"tableflip.dev/cycle/pkg/period"
	"tableflip.dev/cycle/pkg/repository"
	"tableflip.dev/cycle/pkg/store"
	"tableflip.dev/cycle/pkg/window"
)

var (
	ErrNoStore       = errors.New("app: no store configured")
	ErrPeriodMissing = errors.New("app: period not found")
)

// Options configures a Session.
type Options struct {
	Alerter     interaction.Alerter
	Theme       repository.ThemeSelector
	MonthsAhead int
	// Watch reloads the snapshot when the store reports changes made
	// elsewhere. Only stores implementing store.Watcher can be watched.
	Watch bool
	Now   func() time.Time
	Log   *logrus.Entry
}

// Session is one mounted calendar: the repository snapshot, the scrolling
// window and the interaction engine, all sharing one store.
type Session struct {
	Store      store.Store
	Repository *repository.Repository
	Window     *window.Manager
	Engine     *interaction.Engine

	now    func() time.Time
	log    *logrus.Entry
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed atomic.Bool
}

// Open builds a session over st, centers the window on today and loads the
// first snapshot.
func Open(ctx context.Context, st store.Store, opts Options) (*Session, error) {
	if st == nil {
		return nil, ErrNoStore
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Session{
		Store: st,
		now:   opts.Now,
		log:   opts.Log.WithField("component", "session"),
	}
	s.Repository = repository.New(st, repository.Options{
		Theme:       opts.Theme,
		MonthsAhead: opts.MonthsAhead,
		Now:         opts.Now,
		Log:         opts.Log,
	})
	s.Window = window.New(nil, opts.Log)
	s.Window.Initialize(opts.Now())

	engine, err := interaction.New(interaction.Config{
		Store:   st,
		Periods: s.Repository,
		Alerter: opts.Alerter,
		Refresh: s.Repository.Refresh,
		Now:     opts.Now,
		Log:     opts.Log,
	})
	if err != nil {
		return nil, err
	}
	s.Engine = engine

	if _, err := s.Repository.Load(ctx); err != nil {
		return nil, err
	}

	if opts.Watch {
		if err := s.watch(); err != nil {
			s.log.WithError(err).Warn("store watch unavailable")
		}
	}
	return s, nil
}

func (s *Session) watch() error {
	w, ok := s.Store.(store.Watcher)
	if !ok {
		return fmt.Errorf("app: %T cannot be watched", s.Store)
	}
	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Watch(ctx)
	if err != nil {
		cancel()
		return err
	}
	s.cancel = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for ev := range events {
			s.log.WithField("event", ev.Type).Debug("store changed")
			if err := s.Repository.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.log.WithError(err).Warn("refresh after store change failed")
			}
		}
	}()
	return nil
}

// Close detaches every component from its owner and stops the watch.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.Engine.Close()
	s.Window.Close()
	s.Repository.Close()
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Months returns the current calendar window.
func (s *Session) Months() []calendar.Month {
	return s.Window.Window().Months
}

// Marker returns a calendar.Marker over the current snapshot and the
// in-progress selection.
func (s *Session) Marker() calendar.Marker {
	snap := s.Repository.Snapshot()
	today := interval.Day(s.now())
	logged := interval.Materialize(period.Ranges(snap.Periods)...)
	predicted := interval.Materialize(period.PredictionRanges(snap.Predictions)...)
	selected := interval.DaySet{}
	if st := s.Engine.State(); st.Selection != nil {
		selected = interval.Materialize(*st.Selection)
	}
	return func(d time.Time) calendar.Mark {
		mark := calendar.MarkNone
		if logged.Has(d) {
			mark |= calendar.MarkPeriod
		}
		if predicted.Has(d) {
			mark |= calendar.MarkPredicted
		}
		if interval.SameDay(d, today) {
			mark |= calendar.MarkToday
		}
		if selected.Has(d) {
			mark |= calendar.MarkSelected
		}
		return mark
	}
}

// LogPeriod drives the engine through a full log: begin, select both days,
// save. Unlike Engine.Save it does not leave a retryable selection behind: a
// rejected or failed save cancels the selection and the caller retries with
// a new LogPeriod.
func (s *Session) LogPeriod(ctx context.Context, start, end time.Time) (interaction.Result, error) {
	if err := s.Engine.BeginLog(); err != nil {
		return interaction.Failed, err
	}
	for _, d := range []time.Time{start, end} {
		if err := s.Engine.SelectDate(d, interaction.Position{}); err != nil {
			_ = s.Engine.CancelLog()
			return interaction.Failed, err
		}
	}
	res, err := s.Engine.Save(ctx)
	if res != interaction.Saved {
		_ = s.Engine.CancelLog()
	}
	return res, err
}

// DeletePeriod opens the tooltip for the period with id and confirms its
// deletion. A failed delete dismisses the tooltip again.
func (s *Session) DeletePeriod(ctx context.Context, id string) error {
	if err := s.Engine.OpenTooltip(id, interaction.Position{}); err != nil {
		if errors.Is(err, interaction.ErrUnknownPeriod) {
			return fmt.Errorf("%w: %s", ErrPeriodMissing, id)
		}
		return err
	}
	if err := s.Engine.RequestDelete(); err != nil {
		_ = s.Engine.Dismiss()
		return err
	}
	if err := s.Engine.ConfirmDelete(ctx); err != nil {
		_ = s.Engine.Dismiss()
		return err
	}
	return nil
}
