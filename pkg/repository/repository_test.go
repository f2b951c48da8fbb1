package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tableflip.dev/cycle/pkg/period"
)

var now = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type fakeReader struct {
	mu          sync.Mutex
	records     []period.Record
	predictions []period.PredictionRecord
	status      period.CycleStatus
	historyErr  error
	predErr     error
	statusErr   error
	months      int
	gate        chan struct{}
}

func (f *fakeReader) FetchPeriodHistory(ctx context.Context) ([]period.Record, error) {
	if f.gate != nil {
		<-f.gate
	}
	return f.records, f.historyErr
}

func (f *fakeReader) FetchPredictions(_ context.Context, monthsAhead int) ([]period.PredictionRecord, error) {
	f.mu.Lock()
	f.months = monthsAhead
	f.mu.Unlock()
	return f.predictions, f.predErr
}

func (f *fakeReader) FetchCycleStatus(context.Context) (period.CycleStatus, error) {
	return f.status, f.statusErr
}

func strptr(s string) *string { return &s }

func populated() *fakeReader {
	return &fakeReader{
		records: []period.Record{
			{ID: "b", StartDate: "2026-10-17", EndDate: nil},
			{ID: "a", StartDate: "2026-09-20", EndDate: strptr("2026-09-24")},
		},
		predictions: []period.PredictionRecord{{StartDate: "2026-11-14", EndDate: "2026-11-18"}},
		status:      period.CycleStatus{CurrentPhase: period.PhaseMenstrual},
	}
}

func TestLoadPublishesSnapshot(t *testing.T) {
	var phases []string
	r := New(populated(), Options{
		Now:   func() time.Time { return now },
		Theme: ThemeFunc(func(p string) { phases = append(phases, p) }),
	})

	snap, err := r.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Periods) != 2 || snap.Periods[0].ID != "a" {
		t.Fatalf("expected periods sorted by start, got %+v", snap.Periods)
	}
	ongoing := snap.Periods[1]
	if !ongoing.Ongoing || ongoing.End.Format("2006-01-02") != "2026-10-19" {
		t.Fatalf("expected ongoing period ending today, got %+v", ongoing)
	}
	if len(snap.Predictions) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(snap.Predictions))
	}
	if snap.Phase != period.PhaseMenstrual || r.Phase() != period.PhaseMenstrual {
		t.Fatalf("expected menstrual phase, got %q", snap.Phase)
	}
	if len(phases) != 1 || phases[0] != period.PhaseMenstrual {
		t.Fatalf("expected theme selector called once with menstrual, got %v", phases)
	}
}

func TestLoadFailuresAreIndependent(t *testing.T) {
	src := populated()
	src.historyErr = errors.New("history down")
	src.statusErr = errors.New("status down")
	r := New(src, Options{Now: func() time.Time { return now }})

	snap, err := r.Load(context.Background())
	if err != nil {
		t.Fatalf("expected failures to be absorbed, got %v", err)
	}
	if len(snap.Periods) != 0 {
		t.Fatalf("expected empty periods, got %d", len(snap.Periods))
	}
	if len(snap.Predictions) != 1 {
		t.Fatalf("expected predictions to land, got %d", len(snap.Predictions))
	}
	if snap.Phase != period.PhaseUnknown {
		t.Fatalf("expected unknown phase, got %q", snap.Phase)
	}
}

func TestLoadSkipsMalformedRecords(t *testing.T) {
	src := populated()
	src.records = append(src.records, period.Record{ID: "", StartDate: "2026-01-01"}, period.Record{ID: "x", StartDate: "nope"})
	r := New(src, Options{Now: func() time.Time { return now }})
	snap, _ := r.Load(context.Background())
	if len(snap.Periods) != 2 {
		t.Fatalf("expected malformed records skipped, got %d periods", len(snap.Periods))
	}
}

func TestMonthsAheadDefault(t *testing.T) {
	src := populated()
	r := New(src, Options{})
	if _, err := r.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if src.months != DefaultMonthsAhead {
		t.Fatalf("expected %d months ahead, got %d", DefaultMonthsAhead, src.months)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r := New(populated(), Options{Now: func() time.Time { return now }})
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	ps := r.Periods()
	ps[0].ID = "mutated"
	if r.Periods()[0].ID != "a" {
		t.Fatalf("expected repository state unaffected by caller mutation")
	}
}

func TestLoadAfterCloseDiscarded(t *testing.T) {
	src := populated()
	src.gate = make(chan struct{})
	r := New(src, Options{Now: func() time.Time { return now }})

	done := make(chan error, 1)
	go func() {
		_, err := r.Load(context.Background())
		done <- err
	}()
	r.Close()
	close(src.gate)
	if err := <-done; err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(r.Periods()) != 0 {
		t.Fatalf("expected late load discarded")
	}
}

func TestLoadCancelledKeepsPrevious(t *testing.T) {
	r := New(populated(), Options{Now: func() time.Time { return now }})
	if _, err := r.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(r.Periods()) != 2 {
		t.Fatalf("expected previous snapshot kept")
	}
}
