package interaction

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"tableflip.dev/cycle/pkg/interval"
	"tableflip.dev/cycle/pkg/period"
)

var today = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func daysFromToday(n int) time.Time {
	return today.AddDate(0, 0, n)
}

type fakeStore struct {
	mu      sync.Mutex
	created []period.Candidate
	deleted []string
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeStore) wait(ctx context.Context) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
		}
	}
}

func (f *fakeStore) CreatePeriodEntry(ctx context.Context, c period.Candidate) error {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, c)
	return nil
}

func (f *fakeStore) DeletePeriodEntry(ctx context.Context, id string) error {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type harness struct {
	engine    *Engine
	store     *fakeStore
	alerts    []Alert
	refreshes int
	mu        sync.Mutex
}

func newHarness(t *testing.T, periods ...period.Period) *harness {
	t.Helper()
	h := &harness{store: &fakeStore{}}
	e, err := New(Config{
		Store:   h.store,
		Periods: PeriodsFunc(func() []period.Period { return periods }),
		Alerter: AlerterFunc(func(a Alert) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.alerts = append(h.alerts, a)
		}),
		Refresh: func(context.Context) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.refreshes++
			return nil
		},
		Now: func() time.Time { return today.Add(14 * time.Hour) },
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	h.engine = e
	return h
}

func (h *harness) lastAlert(t *testing.T) Alert {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.alerts) == 0 {
		t.Fatalf("expected an alert")
	}
	return h.alerts[len(h.alerts)-1]
}

func existing() period.Period {
	return period.Period{ID: "p1", Start: daysFromToday(-5), End: daysFromToday(-2)}
}

func logDays(t *testing.T, h *harness, days ...time.Time) {
	t.Helper()
	if err := h.engine.BeginLog(); err != nil {
		t.Fatalf("begin log: %v", err)
	}
	for _, d := range days {
		if err := h.engine.SelectDate(d, Position{X: 10, Y: 20}); err != nil {
			t.Fatalf("select date: %v", err)
		}
	}
}

func TestSaveRejectsOverlap(t *testing.T) {
	h := newHarness(t, existing())
	logDays(t, h, daysFromToday(-3))

	res, err := h.engine.Save(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != RejectedOverlap {
		t.Fatalf("expected %s, got %s", RejectedOverlap, res)
	}
	a := h.lastAlert(t)
	if a.Title != OverlapTitle || !strings.Contains(a.Message, "already tracked a period") {
		t.Fatalf("unexpected alert %+v", a)
	}
	if len(h.store.created) != 0 {
		t.Fatalf("expected no create call, got %d", len(h.store.created))
	}
	if st := h.engine.State(); st.Mode != LoggingRange || st.Selection == nil {
		t.Fatalf("expected to stay logging with the selection kept, got %+v", st)
	}
}

func TestSaveRejectsAdjacent(t *testing.T) {
	h := newHarness(t, existing())
	logDays(t, h, daysFromToday(-1))

	res, err := h.engine.Save(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != RejectedAdjacent {
		t.Fatalf("expected %s, got %s", RejectedAdjacent, res)
	}
	a := h.lastAlert(t)
	if a.Title != AdjacentTitle || !strings.Contains(a.Message, "extending that period") {
		t.Fatalf("unexpected alert %+v", a)
	}
	if len(h.store.created) != 0 {
		t.Fatalf("expected no create call, got %d", len(h.store.created))
	}
	if h.engine.State().Mode != LoggingRange {
		t.Fatalf("expected to stay logging")
	}
}

func TestSaveRejectsAdjacentBeforeStart(t *testing.T) {
	h := newHarness(t, existing())
	logDays(t, h, daysFromToday(-8), daysFromToday(-6))

	res, _ := h.engine.Save(context.Background())
	if res != RejectedAdjacent {
		t.Fatalf("expected %s, got %s", RejectedAdjacent, res)
	}
}

func TestSaveAcceptsDisjoint(t *testing.T) {
	h := newHarness(t, existing())
	logDays(t, h, daysFromToday(-10))

	res, err := h.engine.Save(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != Saved {
		t.Fatalf("expected %s, got %s", Saved, res)
	}
	if len(h.store.created) != 1 {
		t.Fatalf("expected exactly one create call, got %d", len(h.store.created))
	}
	want := period.Candidate{Start: "2026-10-09", End: "2026-10-09"}
	if h.store.created[0] != want {
		t.Fatalf("expected %+v, got %+v", want, h.store.created[0])
	}
	if st := h.engine.State(); st.Mode != Idle || st.Selection != nil {
		t.Fatalf("expected Idle with no selection, got %+v", st)
	}
	if h.refreshes != 1 {
		t.Fatalf("expected one refresh, got %d", h.refreshes)
	}
}

func TestOverlapTakesPrecedenceOverAdjacency(t *testing.T) {
	adjacentFirst := period.Period{ID: "a", Start: daysFromToday(-20), End: daysFromToday(-16)}
	overlapping := period.Period{ID: "b", Start: daysFromToday(-14), End: daysFromToday(-12)}
	h := newHarness(t, adjacentFirst, overlapping)
	logDays(t, h, daysFromToday(-15), daysFromToday(-13))

	res, _ := h.engine.Save(context.Background())
	if res != RejectedOverlap {
		t.Fatalf("expected overlap to win, got %s", res)
	}
}

func TestSelectionOrderingAndRestart(t *testing.T) {
	h := newHarness(t)
	logDays(t, h, daysFromToday(-3), daysFromToday(-7))
	sel := h.engine.State().Selection
	if sel == nil || !sel.Start.Equal(daysFromToday(-7)) || !sel.End.Equal(daysFromToday(-3)) {
		t.Fatalf("expected [today-7, today-3], got %v", sel)
	}

	if err := h.engine.SelectDate(daysFromToday(-1), Position{}); err != nil {
		t.Fatalf("select: %v", err)
	}
	sel = h.engine.State().Selection
	if !interval.SameDay(sel.Start, sel.End) || !sel.Start.Equal(daysFromToday(-1)) {
		t.Fatalf("expected a new single-day anchor, got %v", sel)
	}
}

func TestStateSnapshotIsACopy(t *testing.T) {
	h := newHarness(t)
	logDays(t, h, daysFromToday(-3))
	st := h.engine.State()
	st.Selection.Start = daysFromToday(-30)
	if h.engine.State().Selection.Start.Equal(daysFromToday(-30)) {
		t.Fatalf("mutating a snapshot must not change engine state")
	}
}

func TestCancelLogDiscardsSelection(t *testing.T) {
	h := newHarness(t)
	logDays(t, h, daysFromToday(-3))
	if err := h.engine.CancelLog(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if st := h.engine.State(); st.Mode != Idle || st.Selection != nil {
		t.Fatalf("expected Idle with no selection, got %+v", st)
	}
}

func TestSaveWithoutSelection(t *testing.T) {
	h := newHarness(t)
	if err := h.engine.BeginLog(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := h.engine.Save(context.Background()); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestSaveFailureKeepsSelection(t *testing.T) {
	h := newHarness(t, existing())
	h.store.setErr(errors.New("store down"))
	logDays(t, h, daysFromToday(-10))

	res, err := h.engine.Save(context.Background())
	if err == nil {
		t.Fatalf("expected store error")
	}
	if res != Failed {
		t.Fatalf("expected %s, got %s", Failed, res)
	}
	if st := h.engine.State(); st.Mode != LoggingRange || st.Selection == nil {
		t.Fatalf("expected selection kept for retry, got %+v", st)
	}
	if h.refreshes != 0 {
		t.Fatalf("expected no refresh after failure")
	}

	h.store.setErr(nil)
	if res, err := h.engine.Save(context.Background()); err != nil || res != Saved {
		t.Fatalf("expected retry to save, got %s %v", res, err)
	}
}

func TestSaveInFlightDropsDuplicates(t *testing.T) {
	h := newHarness(t)
	h.store.gate = make(chan struct{})
	h.store.entered = make(chan struct{}, 1)
	logDays(t, h, daysFromToday(-10))

	done := make(chan Result, 1)
	go func() {
		res, err := h.engine.Save(context.Background())
		if err != nil {
			t.Errorf("save: %v", err)
		}
		done <- res
	}()
	<-h.store.entered

	if !h.engine.Busy() {
		t.Fatalf("expected engine busy while saving")
	}
	res, err := h.engine.Save(context.Background())
	if err != nil || res != Dropped {
		t.Fatalf("expected duplicate save dropped, got %s %v", res, err)
	}

	close(h.store.gate)
	if res := <-done; res != Saved {
		t.Fatalf("expected first save to succeed, got %s", res)
	}
	if len(h.store.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(h.store.created))
	}
}

func TestDeleteFlow(t *testing.T) {
	h := newHarness(t, existing())

	found, err := h.engine.PressDay(daysFromToday(-4), Position{X: 1, Y: 2})
	if err != nil || !found {
		t.Fatalf("expected tooltip for existing period, got %v %v", found, err)
	}
	if h.engine.TooltipTarget() != "p1" {
		t.Fatalf("expected tooltip target p1, got %q", h.engine.TooltipTarget())
	}
	if err := h.engine.RequestDelete(); err != nil {
		t.Fatalf("request delete: %v", err)
	}
	a := h.lastAlert(t)
	if a.Title != DeleteTitle || len(a.Actions) != 2 {
		t.Fatalf("unexpected confirmation %+v", a)
	}
	if a.Actions[0].Label != "Delete" || a.Actions[0].Role != RoleDestructive || a.Actions[1].Label != "Cancel" {
		t.Fatalf("unexpected actions %+v", a.Actions)
	}
	if h.engine.State().Mode != TooltipOpen {
		t.Fatalf("expected tooltip to stay open while confirming")
	}

	if err := h.engine.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("confirm delete: %v", err)
	}
	if len(h.store.deleted) != 1 || h.store.deleted[0] != "p1" {
		t.Fatalf("expected one delete call for p1, got %v", h.store.deleted)
	}
	if h.refreshes != 1 {
		t.Fatalf("expected one refresh, got %d", h.refreshes)
	}
	if st := h.engine.State(); st.Mode != Idle || st.TooltipTarget != "" {
		t.Fatalf("expected Idle with no target, got %+v", st)
	}
}

func TestDeleteFailureKeepsTooltip(t *testing.T) {
	h := newHarness(t, existing())
	h.store.setErr(errors.New("store down"))
	if _, err := h.engine.PressDay(daysFromToday(-2), Position{}); err != nil {
		t.Fatalf("press: %v", err)
	}
	if err := h.engine.ConfirmDelete(context.Background()); err == nil {
		t.Fatalf("expected delete error")
	}
	if st := h.engine.State(); st.Mode != TooltipOpen || st.TooltipTarget != "p1" {
		t.Fatalf("expected tooltip kept for retry, got %+v", st)
	}
}

func TestPressEmptyDayStaysIdle(t *testing.T) {
	h := newHarness(t, existing())
	found, err := h.engine.PressDay(daysFromToday(-10), Position{})
	if err != nil || found {
		t.Fatalf("expected no tooltip, got %v %v", found, err)
	}
	if h.engine.State().Mode != Idle {
		t.Fatalf("expected Idle")
	}
}

func TestDismissClearsTarget(t *testing.T) {
	h := newHarness(t, existing())
	if _, err := h.engine.PressDay(daysFromToday(-5), Position{}); err != nil {
		t.Fatalf("press: %v", err)
	}
	if err := h.engine.Dismiss(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if st := h.engine.State(); st.Mode != Idle || st.TooltipTarget != "" {
		t.Fatalf("expected Idle with no target, got %+v", st)
	}
}

func TestInvalidTransitions(t *testing.T) {
	h := newHarness(t, existing())
	checks := []struct {
		name string
		fn   func() error
	}{
		{"cancel while idle", h.engine.CancelLog},
		{"select while idle", func() error { return h.engine.SelectDate(today, Position{}) }},
		{"save while idle", func() error { _, err := h.engine.Save(context.Background()); return err }},
		{"request delete while idle", h.engine.RequestDelete},
		{"confirm delete while idle", func() error { return h.engine.ConfirmDelete(context.Background()) }},
		{"dismiss while idle", h.engine.Dismiss},
	}
	for _, c := range checks {
		if err := c.fn(); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s: expected ErrInvalidTransition, got %v", c.name, err)
		}
	}

	logDays(t, h)
	if err := h.engine.BeginLog(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("begin while logging: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := h.engine.PressDay(daysFromToday(-4), Position{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("press while logging: expected ErrInvalidTransition, got %v", err)
	}
}

func TestOngoingPeriodValidation(t *testing.T) {
	ongoing := period.Period{ID: "now", Start: daysFromToday(-2), End: daysFromToday(-1), Ongoing: true}

	if v, _ := Validate(interval.Single(today), []period.Period{ongoing}, today); v != Overlap {
		t.Fatalf("expected today to overlap an ongoing period, got %s", v)
	}
	if v, _ := Validate(interval.Single(daysFromToday(1)), []period.Period{ongoing}, today); v != Accept {
		t.Fatalf("ongoing end must not count for adjacency, got %s", v)
	}
	if v, _ := Validate(interval.Single(daysFromToday(-3)), []period.Period{ongoing}, today); v != Adjacent {
		t.Fatalf("expected the day before an ongoing start to be adjacent, got %s", v)
	}
}

func TestCloseSuppressesLateResults(t *testing.T) {
	h := newHarness(t)
	h.store.gate = make(chan struct{})
	h.store.entered = make(chan struct{}, 1)
	logDays(t, h, daysFromToday(-10))

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := h.engine.Save(context.Background()); err != nil {
			t.Errorf("save: %v", err)
		}
	}()
	<-h.store.entered
	h.engine.Close()
	close(h.store.gate)
	<-done

	if h.refreshes != 0 {
		t.Fatalf("expected no refresh after close, got %d", h.refreshes)
	}
	if h.engine.State().Mode != LoggingRange {
		t.Fatalf("expected state untouched after close")
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrMissingStore) {
		t.Fatalf("expected ErrMissingStore, got %v", err)
	}
	if _, err := New(Config{Store: &fakeStore{}}); !errors.Is(err, ErrMissingPeriods) {
		t.Fatalf("expected ErrMissingPeriods, got %v", err)
	}
}

func overlapping() []period.Period {
	return []period.Period{
		{ID: "wide", Start: daysFromToday(-18), End: daysFromToday(-9)},
		{ID: "inner", Start: daysFromToday(-14), End: daysFromToday(-12)},
	}
}

func TestPeriodsResolvedInSourceOrder(t *testing.T) {
	periods := overlapping()
	if v, p := Validate(interval.Single(daysFromToday(-13)), periods, today); v != Overlap || p.ID != "wide" {
		t.Fatalf("expected overlap with the first period, got %s %q", v, p.ID)
	}
	h := newHarness(t, periods...)
	found, err := h.engine.PressDay(daysFromToday(-13), Position{})
	if err != nil || !found {
		t.Fatalf("expected a tooltip, got %v %v", found, err)
	}
	if got := h.engine.TooltipTarget(); got != "wide" {
		t.Fatalf("expected the first period to win, got %q", got)
	}
}

func TestOpenTooltipTargetsID(t *testing.T) {
	h := newHarness(t, overlapping()...)

	if err := h.engine.OpenTooltip("inner", Position{X: 3}); err != nil {
		t.Fatalf("open tooltip: %v", err)
	}
	if got := h.engine.TooltipTarget(); got != "inner" {
		t.Fatalf("expected inner, got %q", got)
	}
	if err := h.engine.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("confirm delete: %v", err)
	}
	if len(h.store.deleted) != 1 || h.store.deleted[0] != "inner" {
		t.Fatalf("expected only inner deleted, got %v", h.store.deleted)
	}

	if err := h.engine.OpenTooltip("gone", Position{}); !errors.Is(err, ErrUnknownPeriod) {
		t.Fatalf("expected ErrUnknownPeriod, got %v", err)
	}
	if h.engine.State().Mode != Idle {
		t.Fatalf("expected idle after unknown id")
	}
	if err := h.engine.BeginLog(); err != nil {
		t.Fatalf("begin log: %v", err)
	}
	if err := h.engine.OpenTooltip("wide", Position{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition while logging, got %v", err)
	}
}

func TestSelectionFrozenWhileSaving(t *testing.T) {
	h := newHarness(t)
	h.store.gate = make(chan struct{})
	h.store.entered = make(chan struct{}, 1)
	logDays(t, h, daysFromToday(-10), daysFromToday(-8))

	done := make(chan Result, 1)
	go func() {
		res, err := h.engine.Save(context.Background())
		if err != nil {
			t.Errorf("save: %v", err)
		}
		done <- res
	}()
	<-h.store.entered

	if err := h.engine.SelectDate(daysFromToday(-30), Position{}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for select, got %v", err)
	}
	if err := h.engine.CancelLog(); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for cancel, got %v", err)
	}
	st := h.engine.State()
	if st.Mode != LoggingRange || st.Selection == nil || !st.Selection.Start.Equal(daysFromToday(-10)) {
		t.Fatalf("expected selection untouched while saving, got %+v", st)
	}

	close(h.store.gate)
	if res := <-done; res != Saved {
		t.Fatalf("expected save to succeed, got %s", res)
	}
	if got := h.store.created[0]; got.Start != interval.Key(daysFromToday(-10)) || got.End != interval.Key(daysFromToday(-8)) {
		t.Fatalf("expected the saved candidate to match the selection, got %+v", got)
	}
	if h.engine.State().Mode != Idle {
		t.Fatalf("expected idle after save")
	}
}
