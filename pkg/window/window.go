// Package window manages the scrolling calendar: an ordered run of months
// that grows in batches at either end.
package window

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"tableflip.dev/cycle/pkg/calendar"
)

const (
	// PastMonths is the number of months before the current one in a fresh window.
	PastMonths = 6
	// FutureMonths is the number of months after the current one in a fresh window.
	FutureMonths = 6
	// InitialSize is the length of a freshly initialized window.
	InitialSize = PastMonths + 1 + FutureMonths
	// BatchSize is the number of months added by one extension.
	BatchSize = 6
)

var (
	ErrNotInitialized = errors.New("window: not initialized")
	ErrBadBatch       = errors.New("window: source returned a non-contiguous batch")
)

// Direction selects which end of the window to extend.
type Direction int

const (
	Past Direction = iota
	Future
)

func (d Direction) String() string {
	switch d {
	case Past:
		return "past"
	case Future:
		return "future"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Source produces count consecutive months starting at the month of start.
type Source interface {
	Months(ctx context.Context, start time.Time, count int) ([]calendar.Month, error)
}

// LocalSource generates months in process.
type LocalSource struct{}

// Months implements Source.
func (LocalSource) Months(_ context.Context, start time.Time, count int) ([]calendar.Month, error) {
	return calendar.Span(start, count), nil
}

// Window is an immutable snapshot of the calendar months, oldest first.
type Window struct {
	Months []calendar.Month
}

// Len is the number of months in the window.
func (w Window) Len() int { return len(w.Months) }

// Locate returns the index of the month containing t, or -1.
func (w Window) Locate(t time.Time) int {
	id := calendar.ID(t)
	for i, m := range w.Months {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Manager owns the calendar window. Each direction has its own latch so a
// past and a future extension may run at the same time, while repeated calls
// in one direction are dropped until the running one finishes.
type Manager struct {
	source Source
	log    *logrus.Entry

	mu      sync.Mutex // serializes window replacement
	current atomic.Pointer[Window]

	latch   [2]atomic.Bool
	loading [2]atomic.Bool
	closed  atomic.Bool
}

// New creates a manager. A nil source generates months locally.
func New(source Source, log *logrus.Entry) *Manager {
	if source == nil {
		source = LocalSource{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Manager{source: source, log: log.WithField("component", "window")}
}

// Initialize builds the window centered on the month of now. It is a no-op
// once the window exists.
func (m *Manager) Initialize(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current.Load() != nil {
		return
	}
	months := calendar.Span(calendar.AddMonths(now, -PastMonths), InitialSize)
	m.current.Store(&Window{Months: months})
	m.log.WithField("months", len(months)).Debug("window initialized")
}

// Window returns the current snapshot. The returned slice is a copy.
func (m *Manager) Window() Window {
	w := m.current.Load()
	if w == nil {
		return Window{}
	}
	return Window{Months: append([]calendar.Month(nil), w.Months...)}
}

// Loading reports whether an extension in dir is in flight.
func (m *Manager) Loading(dir Direction) bool {
	return m.loading[dir].Load()
}

// Close marks the owner as gone. Extensions that complete afterwards are
// discarded.
func (m *Manager) Close() {
	m.closed.Store(true)
}

// ExtendPast prepends BatchSize months.
func (m *Manager) ExtendPast(ctx context.Context) error {
	return m.extend(ctx, Past)
}

// ExtendFuture appends BatchSize months.
func (m *Manager) ExtendFuture(ctx context.Context) error {
	return m.extend(ctx, Future)
}

func (m *Manager) extend(ctx context.Context, dir Direction) error {
	if dir != Past && dir != Future {
		return fmt.Errorf("window: unknown direction %v", dir)
	}
	// The latch must be taken before the source is consulted.
	if !m.latch[dir].CompareAndSwap(false, true) {
		m.log.WithField("direction", dir).Debug("extension already in flight, dropped")
		return nil
	}
	m.loading[dir].Store(true)
	defer func() {
		m.latch[dir].Store(false)
		m.loading[dir].Store(false)
	}()

	cur := m.current.Load()
	if cur == nil || len(cur.Months) == 0 {
		return ErrNotInitialized
	}

	var start time.Time
	switch dir {
	case Past:
		start = calendar.AddMonths(cur.Months[0].Date, -BatchSize)
	case Future:
		start = calendar.AddMonths(cur.Months[len(cur.Months)-1].Date, 1)
	}

	batch, err := m.source.Months(ctx, start, BatchSize)
	if err != nil {
		return fmt.Errorf("window: extend %s: %w", dir, err)
	}
	if m.closed.Load() {
		m.log.WithField("direction", dir).Debug("owner closed, extension discarded")
		return nil
	}
	if err := checkBatch(batch, start); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cur = m.current.Load()
	next := make([]calendar.Month, 0, len(cur.Months)+len(batch))
	switch dir {
	case Past:
		if !calendar.Next(batch[len(batch)-1], cur.Months[0]) {
			return ErrBadBatch
		}
		next = append(next, batch...)
		next = append(next, cur.Months...)
	case Future:
		if !calendar.Next(cur.Months[len(cur.Months)-1], batch[0]) {
			return ErrBadBatch
		}
		next = append(next, cur.Months...)
		next = append(next, batch...)
	}
	m.current.Store(&Window{Months: next})
	m.log.WithFields(logrus.Fields{
		"direction": dir,
		"months":    len(next),
	}).Debug("window extended")
	return nil
}

func checkBatch(batch []calendar.Month, start time.Time) error {
	if len(batch) != BatchSize {
		return fmt.Errorf("%w: got %d months, want %d", ErrBadBatch, len(batch), BatchSize)
	}
	if batch[0].ID != calendar.ID(start) {
		return fmt.Errorf("%w: starts at %s, want %s", ErrBadBatch, batch[0].ID, calendar.ID(start))
	}
	for i := 1; i < len(batch); i++ {
		if !calendar.Next(batch[i-1], batch[i]) {
			return fmt.Errorf("%w: %s does not follow %s", ErrBadBatch, batch[i].ID, batch[i-1].ID)
		}
	}
	return nil
}
