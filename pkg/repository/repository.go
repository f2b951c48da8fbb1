// Package repository loads periods, predictions and the cycle phase from the
// store and keeps the latest result as an immutable snapshot.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/cycle/pkg/interval"
	"tableflip.dev/cycle/pkg/period"
)

// DefaultMonthsAhead is how far ahead predictions are requested when no
// horizon is configured.
const DefaultMonthsAhead = 3

// Reader is the read side of the period store.
type Reader interface {
	FetchPeriodHistory(ctx context.Context) ([]period.Record, error)
	FetchPredictions(ctx context.Context, monthsAhead int) ([]period.PredictionRecord, error)
	FetchCycleStatus(ctx context.Context) (period.CycleStatus, error)
}

// ThemeSelector receives the current phase after every load.
type ThemeSelector interface {
	SetPhase(phase string)
}

// ThemeFunc adapts a function to ThemeSelector.
type ThemeFunc func(phase string)

// SetPhase implements ThemeSelector.
func (f ThemeFunc) SetPhase(phase string) { f(phase) }

// Snapshot is the result of one load. It is never mutated after it is
// published.
type Snapshot struct {
	// Periods are ordered by start date, whatever order the store used.
	Periods     []period.Period
	Predictions []period.Prediction
	Phase       string
	LoadedAt    time.Time
}

// Options configures a Repository.
type Options struct {
	Theme       ThemeSelector
	MonthsAhead int
	Now         func() time.Time
	Log         *logrus.Entry
}

// Repository fetches from a Reader and publishes snapshots.
type Repository struct {
	source      Reader
	theme       ThemeSelector
	monthsAhead int
	now         func() time.Time
	log         *logrus.Entry

	mu      sync.Mutex // serializes loads
	current atomic.Pointer[Snapshot]
	closed  atomic.Bool
}

// New creates a repository with an empty snapshot.
func New(source Reader, opts Options) *Repository {
	r := &Repository{
		source:      source,
		theme:       opts.Theme,
		monthsAhead: opts.MonthsAhead,
		now:         opts.Now,
		log:         opts.Log,
	}
	if r.monthsAhead <= 0 {
		r.monthsAhead = DefaultMonthsAhead
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.log == nil {
		r.log = logrus.NewEntry(logrus.StandardLogger())
	}
	r.log = r.log.WithField("component", "repository")
	r.current.Store(&Snapshot{Phase: period.PhaseUnknown})
	return r
}

// Load fetches history, predictions and status concurrently. A failing read
// is logged and contributes an empty result; the other reads still land. The
// new snapshot replaces the old one as a whole. Results that arrive after
// Close are discarded.
func (r *Repository) Load(ctx context.Context) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	today := interval.Day(r.now())
	var (
		records     []period.Record
		predictions []period.PredictionRecord
		status      period.CycleStatus
	)

	var g errgroup.Group
	g.Go(func() error {
		recs, err := r.source.FetchPeriodHistory(ctx)
		if err != nil {
			r.log.WithError(err).Warn("fetch period history failed")
			return nil
		}
		records = recs
		return nil
	})
	g.Go(func() error {
		preds, err := r.source.FetchPredictions(ctx, r.monthsAhead)
		if err != nil {
			r.log.WithError(err).Warn("fetch predictions failed")
			return nil
		}
		predictions = preds
		return nil
	})
	g.Go(func() error {
		st, err := r.source.FetchCycleStatus(ctx)
		if err != nil {
			r.log.WithError(err).Warn("fetch cycle status failed")
			return nil
		}
		status = st
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return r.Snapshot(), err
	}
	if r.closed.Load() {
		r.log.Debug("owner closed, load discarded")
		return r.Snapshot(), nil
	}

	periods, errs := period.ParseAll(records, today)
	for _, err := range errs {
		r.log.WithError(err).Warn("skipping malformed period")
	}
	preds, errs := period.ParsePredictions(predictions, today.Location())
	for _, err := range errs {
		r.log.WithError(err).Warn("skipping malformed prediction")
	}
	phase := status.CurrentPhase
	if phase == "" {
		phase = period.PhaseUnknown
	}

	snap := &Snapshot{
		Periods:     periods,
		Predictions: preds,
		Phase:       phase,
		LoadedAt:    r.now(),
	}
	r.current.Store(snap)
	r.log.WithFields(logrus.Fields{
		"periods":     len(periods),
		"predictions": len(preds),
		"phase":       phase,
	}).Debug("snapshot loaded")

	if r.theme != nil {
		r.theme.SetPhase(phase)
	}
	return r.Snapshot(), nil
}

// Refresh reloads the snapshot.
func (r *Repository) Refresh(ctx context.Context) error {
	_, err := r.Load(ctx)
	return err
}

// Snapshot returns a copy of the latest snapshot.
func (r *Repository) Snapshot() Snapshot {
	s := r.current.Load()
	return Snapshot{
		Periods:     append([]period.Period(nil), s.Periods...),
		Predictions: append([]period.Prediction(nil), s.Predictions...),
		Phase:       s.Phase,
		LoadedAt:    s.LoadedAt,
	}
}

// Periods returns the logged periods of the latest snapshot, ordered by start
// date. The engine checks and resolves periods in this order, so the earliest
// period wins when two of them cover the same day.
func (r *Repository) Periods() []period.Period {
	return append([]period.Period(nil), r.current.Load().Periods...)
}

// Predictions returns the predicted periods of the latest snapshot.
func (r *Repository) Predictions() []period.Prediction {
	return append([]period.Prediction(nil), r.current.Load().Predictions...)
}

// Phase returns the cycle phase of the latest snapshot.
func (r *Repository) Phase() string {
	return r.current.Load().Phase
}

// Close marks the owner as gone.
func (r *Repository) Close() {
	r.closed.Store(true)
}
