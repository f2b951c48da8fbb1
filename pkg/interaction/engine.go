// Package interaction drives logging and deleting periods from the calendar:
// a small state machine over range selection and the per-period tooltip.
package interaction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"tableflip.dev/cycle/pkg/interval"
	"tableflip.dev/cycle/pkg/period"
)

var (
	ErrInvalidTransition = errors.New("interaction: invalid transition")
	ErrNoSelection       = errors.New("interaction: no dates selected")
	ErrUnknownPeriod     = errors.New("interaction: tooltip period no longer exists")
	ErrMissingStore      = errors.New("interaction: store required")
	ErrMissingPeriods    = errors.New("interaction: period source required")
	ErrBusy              = errors.New("interaction: store write in flight")
)

// Alert titles and messages shown to the user.
const (
	OverlapTitle    = "Period already logged!"
	OverlapMessage  = "You've already tracked a period on some of these days. Tap the existing period to change or delete it."
	AdjacentTitle   = "Looks like one continuous period!"
	AdjacentMessage = "These days sit right next to a period you've already logged. Try extending that period instead of adding a new one."
	DeleteTitle     = "Delete this period?"
	DeleteMessage   = "The logged days will be removed from your history."
)

// Mode is the active state of the engine.
type Mode int

const (
	Idle Mode = iota
	LoggingRange
	TooltipOpen
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case LoggingRange:
		return "logging"
	case TooltipOpen:
		return "tooltip"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Position is where on screen a day was pressed; used to place the tooltip.
type Position struct {
	X, Y float64
}

// State is a snapshot of the engine. Selection is set only while logging and
// TooltipTarget only while the tooltip is open.
type State struct {
	Mode          Mode
	Selection     *interval.Range
	TooltipTarget string
	Anchor        Position
}

func (s State) clone() State {
	if s.Selection != nil {
		sel := *s.Selection
		s.Selection = &sel
	}
	return s
}

// Result reports what Save did.
type Result int

const (
	// Dropped means a save was already in flight.
	Dropped Result = iota
	Saved
	RejectedOverlap
	RejectedAdjacent
	// Failed means the save returned an error.
	Failed
)

func (r Result) String() string {
	switch r {
	case Dropped:
		return "dropped"
	case Saved:
		return "saved"
	case RejectedOverlap:
		return "rejected-overlap"
	case RejectedAdjacent:
		return "rejected-adjacent"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Role tells the alert UI how to present an action.
type Role string

const (
	RoleDefault     Role = "default"
	RoleCancel      Role = "cancel"
	RoleDestructive Role = "destructive"
)

// Action is one button of an alert.
type Action struct {
	Label string
	Role  Role
}

// Alert is a title, a message and the actions offered with them.
type Alert struct {
	Title   string
	Message string
	Actions []Action
}

// Alerter presents alerts and confirmation dialogs.
type Alerter interface {
	Show(Alert)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(Alert)

// Show implements Alerter.
func (f AlerterFunc) Show(a Alert) { f(a) }

// Store is the write side of the period store.
type Store interface {
	CreatePeriodEntry(ctx context.Context, c period.Candidate) error
	DeletePeriodEntry(ctx context.Context, id string) error
}

// PeriodSource supplies the current list of logged periods. Validation and
// PressDay walk the list in the order it is returned.
type PeriodSource interface {
	Periods() []period.Period
}

// PeriodsFunc adapts a function to PeriodSource.
type PeriodsFunc func() []period.Period

// Periods implements PeriodSource.
func (f PeriodsFunc) Periods() []period.Period { return f() }

// Config wires an Engine to its collaborators.
type Config struct {
	Store   Store
	Periods PeriodSource
	Alerter Alerter
	// Refresh is asked to reload the period list after a successful write.
	Refresh func(ctx context.Context) error
	// Now defaults to time.Now.
	Now func() time.Time
	Log *logrus.Entry
}

// Engine is the period logging state machine. All transitions replace the
// state as a whole; store calls run without the lock held and at most one
// write is in flight at a time.
type Engine struct {
	store   Store
	periods PeriodSource
	alerts  Alerter
	refresh func(ctx context.Context) error
	now     func() time.Time
	log     *logrus.Entry

	mu       sync.Mutex
	state    State
	inFlight bool
	closed   atomic.Bool
}

// New creates an engine in the Idle state.
func New(cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, ErrMissingStore
	}
	if cfg.Periods == nil {
		return nil, ErrMissingPeriods
	}
	e := &Engine{
		store:   cfg.Store,
		periods: cfg.Periods,
		alerts:  cfg.Alerter,
		refresh: cfg.Refresh,
		now:     cfg.Now,
		log:     cfg.Log,
	}
	if e.alerts == nil {
		e.alerts = AlerterFunc(func(Alert) {})
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = logrus.NewEntry(logrus.StandardLogger())
	}
	e.log = e.log.WithField("component", "interaction")
	return e, nil
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// TooltipTarget returns the id of the period whose tooltip is open.
func (e *Engine) TooltipTarget() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.TooltipTarget
}

// Busy reports whether a store write is in flight.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}

// Close detaches the engine from its owner. Store calls that complete
// afterwards change no state and trigger no refresh.
func (e *Engine) Close() {
	e.closed.Store(true)
}

func (e *Engine) invalid(event string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, event, e.state.Mode)
}

// BeginLog starts selecting a new period.
func (e *Engine) BeginLog() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Mode != Idle {
		return e.invalid("begin-log")
	}
	e.state = State{Mode: LoggingRange}
	return nil
}

// CancelLog abandons the selection.
func (e *Engine) CancelLog() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Mode != LoggingRange {
		return e.invalid("cancel-log")
	}
	if e.inFlight {
		return fmt.Errorf("%w: cancel-log", ErrBusy)
	}
	e.state = State{Mode: Idle}
	return nil
}

// SelectDate moves the selection. The first press selects one day, a second
// press spans both days, and a press after a span starts over from that day.
// The selection is frozen while it is being saved.
func (e *Engine) SelectDate(d time.Time, pos Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Mode != LoggingRange {
		return e.invalid("select-date")
	}
	if e.inFlight {
		return fmt.Errorf("%w: select-date", ErrBusy)
	}
	var sel interval.Range
	switch cur := e.state.Selection; {
	case cur == nil:
		sel = interval.Single(d)
	case interval.SameDay(cur.Start, cur.End):
		sel = interval.New(cur.Start, d)
	default:
		sel = interval.Single(d)
	}
	e.state = State{Mode: LoggingRange, Selection: &sel, Anchor: pos}
	return nil
}

// Save validates the selection and, when it is clear of every logged period,
// creates it in the store. Rejections raise an alert and keep the selection.
// A store failure is returned and the selection is kept for a retry.
func (e *Engine) Save(ctx context.Context) (Result, error) {
	e.mu.Lock()
	if e.state.Mode != LoggingRange {
		err := e.invalid("save")
		e.mu.Unlock()
		return Failed, err
	}
	if e.inFlight {
		e.mu.Unlock()
		e.log.Debug("save already in flight, dropped")
		return Dropped, nil
	}
	if e.state.Selection == nil {
		e.mu.Unlock()
		return Failed, ErrNoSelection
	}
	candidate := *e.state.Selection
	today := interval.Day(e.now())

	verdict, conflict := Validate(candidate, e.periods.Periods(), today)
	if verdict != Accept {
		e.mu.Unlock()
		e.log.WithFields(logrus.Fields{
			"candidate": candidate.String(),
			"conflict":  conflict.ID,
			"verdict":   verdict.String(),
		}).Debug("candidate rejected")
		if verdict == Overlap {
			e.alerts.Show(notice(OverlapTitle, OverlapMessage))
			return RejectedOverlap, nil
		}
		e.alerts.Show(notice(AdjacentTitle, AdjacentMessage))
		return RejectedAdjacent, nil
	}
	e.inFlight = true
	e.mu.Unlock()

	err := e.store.CreatePeriodEntry(ctx, period.NewCandidate(candidate))

	e.mu.Lock()
	e.inFlight = false
	if err != nil {
		e.mu.Unlock()
		return Failed, fmt.Errorf("interaction: create period %s: %w", candidate, err)
	}
	if e.closed.Load() {
		e.mu.Unlock()
		return Saved, nil
	}
	if e.state.Mode == LoggingRange {
		e.state = State{Mode: Idle}
	}
	e.mu.Unlock()

	e.log.WithField("candidate", candidate.String()).Info("period logged")
	e.requestRefresh(ctx)
	return Saved, nil
}

// PressDay opens the tooltip for the period containing d. It reports whether
// a period was found; pressing an empty day leaves the engine Idle. When
// periods overlap on d, the first in the source's order wins.
func (e *Engine) PressDay(d time.Time, pos Position) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Mode != Idle {
		return false, e.invalid("press-day")
	}
	today := interval.Day(e.now())
	for _, p := range e.periods.Periods() {
		if effectiveRange(p, today).Contains(d) {
			e.state = State{Mode: TooltipOpen, TooltipTarget: p.ID, Anchor: pos}
			return true, nil
		}
	}
	return false, nil
}

// OpenTooltip opens the tooltip for the period with id directly, without
// resolving it from a day. Periods may overlap, so a day does not always
// identify one period.
func (e *Engine) OpenTooltip(id string, pos Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Mode != Idle {
		return e.invalid("open-tooltip")
	}
	if _, ok := period.Find(e.periods.Periods(), id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPeriod, id)
	}
	e.state = State{Mode: TooltipOpen, TooltipTarget: id, Anchor: pos}
	return nil
}

// RequestDelete asks the user to confirm deleting the tooltip's period.
func (e *Engine) RequestDelete() error {
	e.mu.Lock()
	if e.state.Mode != TooltipOpen {
		err := e.invalid("delete-requested")
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()
	e.alerts.Show(Alert{
		Title:   DeleteTitle,
		Message: DeleteMessage,
		Actions: []Action{
			{Label: "Delete", Role: RoleDestructive},
			{Label: "Cancel", Role: RoleCancel},
		},
	})
	return nil
}

// ConfirmDelete deletes the tooltip's period. On failure the tooltip stays
// open so the user can retry.
func (e *Engine) ConfirmDelete(ctx context.Context) error {
	e.mu.Lock()
	if e.state.Mode != TooltipOpen {
		err := e.invalid("delete-confirmed")
		e.mu.Unlock()
		return err
	}
	if e.inFlight {
		e.mu.Unlock()
		e.log.Debug("delete already in flight, dropped")
		return nil
	}
	id := e.state.TooltipTarget
	if id == "" {
		e.mu.Unlock()
		return ErrUnknownPeriod
	}
	e.inFlight = true
	e.mu.Unlock()

	err := e.store.DeletePeriodEntry(ctx, id)

	e.mu.Lock()
	e.inFlight = false
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("interaction: delete period %s: %w", id, err)
	}
	if e.closed.Load() {
		e.mu.Unlock()
		return nil
	}
	if e.state.Mode == TooltipOpen && e.state.TooltipTarget == id {
		e.state = State{Mode: Idle}
	}
	e.mu.Unlock()

	e.log.WithField("period", id).Info("period deleted")
	e.requestRefresh(ctx)
	return nil
}

// Dismiss closes the tooltip.
func (e *Engine) Dismiss() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Mode != TooltipOpen {
		return e.invalid("dismiss")
	}
	if e.inFlight {
		return fmt.Errorf("%w: dismiss", ErrBusy)
	}
	e.state = State{Mode: Idle}
	return nil
}

func (e *Engine) requestRefresh(ctx context.Context) {
	if e.refresh == nil || e.closed.Load() {
		return
	}
	if err := e.refresh(ctx); err != nil {
		e.log.WithError(err).Warn("refresh after write failed")
	}
}

func notice(title, message string) Alert {
	return Alert{
		Title:   title,
		Message: message,
		Actions: []Action{{Label: "OK", Role: RoleDefault}},
	}
}
