package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a store change notification.
type EventType int

const (
	// EventPeriodsChanged indicates a period file was added, edited, or removed.
	EventPeriodsChanged EventType = iota

	// EventInvalidated signals a change the watcher could not classify;
	// callers should reload everything.
	EventInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventPeriodsChanged:
		return "periods-changed"
	case EventInvalidated:
		return "invalidated"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is emitted by Watch when underlying storage changes.
type Event struct {
	Type EventType
}

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel to avoid blocking the watcher. The channel is closed once
// ctx is done or the watcher encounters an unrecoverable error.
func (l *Local) Watch(ctx context.Context) (<-chan Event, error) {
	if l.basePath == "" {
		return nil, errors.New("store: base path unknown")
	}

	dir := filepath.Join(l.basePath, periodsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure periods directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				l.log.WithError(err).Warn("watcher close")
			}
		})
	}

	for _, d := range []string{l.basePath, dir} {
		if err := watcher.Add(d); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", d, err)
		}
	}

	events := make(chan Event, 64)

	go func() {
		var sendMu sync.Mutex
		closed := false
		defer func() {
			sendMu.Lock()
			closed = true
			close(events)
			sendMu.Unlock()
		}()
		defer closeWatcher()

		send := func(ev Event) {
			sendMu.Lock()
			defer sendMu.Unlock()
			if closed {
				return
			}
			select {
			case events <- ev:
			default:
				// Dropped when the consumer is behind; the next refresh
				// reads the whole store anyway.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.log.WithError(err).Debug("watcher error")
				throttle.Enqueue(Event{Type: EventInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if l.isPeriodFile(evt.Name) {
					throttle.Enqueue(Event{Type: EventPeriodsChanged}, send)
					continue
				}
				if filepath.Clean(evt.Name) == dir {
					throttle.Enqueue(Event{Type: EventInvalidated}, send)
				}
			}
		}
	}()

	return events, nil
}

func (l *Local) isPeriodFile(path string) bool {
	rel, err := filepath.Rel(filepath.Join(l.basePath, periodsDir), path)
	if err != nil || rel == "." || filepath.Dir(rel) != "." {
		return false
	}
	return filepath.Ext(rel) == fileExt
}

// eventThrottle coalesces rapid change notifications so a burst of writes
// produces one event per type.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev.Type] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[EventType]struct{})
	t.timer = nil
	t.mu.Unlock()

	for eventType := range pending {
		send(Event{Type: eventType})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
