package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
	"github.com/sirupsen/logrus"

	"tableflip.dev/cycle/pkg/forecast"
	"tableflip.dev/cycle/pkg/interval"
	"tableflip.dev/cycle/pkg/period"
)

const (
	periodsDir = "periods"
	fileExt    = ".json"
)

// Local is a Store backed by diskv, one JSON file per period. Predictions and
// cycle status are derived from the stored history.
type Local struct {
	d        *diskv.Diskv
	basePath string
	now      func() time.Time
	log      *logrus.Entry

	mu sync.Mutex // serializes the overlap check with the write
}

var _ Store = (*Local)(nil)
var _ Watcher = (*Local)(nil)

// document is the on-disk form of a period.
type document struct {
	ID        string    `json:"id"`
	StartDate string    `json:"startDate"`
	EndDate   *string   `json:"endDate"`
	Created   time.Time `json:"created"`
}

// Load creates a Local store using the provided config.
func Load(cfg Config, log *logrus.Entry) (*Local, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &Local{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath: basePath,
		now:      time.Now,
		log:      log.WithField("component", "store"),
	}, nil
}

func (l *Local) read(key string) (document, error) {
	val, err := l.d.Read(key)
	if err != nil {
		return document{}, err
	}
	doc := document{}
	if err := json.Unmarshal(val, &doc); err != nil {
		return document{}, err
	}
	if doc.ID == "" {
		doc.ID = key
	}
	return doc, nil
}

func (l *Local) documents(ctx context.Context) []document {
	all := make([]document, 0)
	for key := range l.d.Keys(ctx.Done()) {
		doc, err := l.read(key)
		if err != nil {
			l.log.WithError(err).WithField("key", key).Warn("skipping unreadable period")
			continue
		}
		all = append(all, doc)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].StartDate == all[j].StartDate {
			return all[i].ID < all[j].ID
		}
		return all[i].StartDate < all[j].StartDate
	})
	return all
}

func (l *Local) FetchPeriodHistory(ctx context.Context) ([]period.Record, error) {
	docs := l.documents(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recs := make([]period.Record, len(docs))
	for i, doc := range docs {
		recs[i] = period.Record{ID: doc.ID, StartDate: doc.StartDate, EndDate: doc.EndDate}
	}
	return recs, nil
}

func (l *Local) periods(ctx context.Context) ([]period.Period, time.Time, error) {
	recs, err := l.FetchPeriodHistory(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	today := interval.Day(l.now())
	periods, errs := period.ParseAll(recs, today)
	for _, err := range errs {
		l.log.WithError(err).Warn("skipping malformed period")
	}
	return periods, today, nil
}

func (l *Local) FetchPredictions(ctx context.Context, monthsAhead int) ([]period.PredictionRecord, error) {
	periods, today, err := l.periods(ctx)
	if err != nil {
		return nil, err
	}
	predictions := forecast.Predict(periods, today, monthsAhead)
	recs := make([]period.PredictionRecord, len(predictions))
	for i, p := range predictions {
		recs[i] = period.PredictionRecord{StartDate: interval.Key(p.Start), EndDate: interval.Key(p.End)}
	}
	return recs, nil
}

func (l *Local) FetchCycleStatus(ctx context.Context) (period.CycleStatus, error) {
	periods, today, err := l.periods(ctx)
	if err != nil {
		return period.CycleStatus{}, err
	}
	return period.CycleStatus{CurrentPhase: forecast.Phase(periods, today)}, nil
}

// CreatePeriodEntry stores c under a new id. Candidates that overlap a stored
// period are refused with ErrConflict.
func (l *Local) CreatePeriodEntry(ctx context.Context, c period.Candidate) error {
	r, err := c.Range(l.now().Location())
	if err != nil {
		return fmt.Errorf("store: invalid candidate: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	existing, today, err := l.periods(ctx)
	if err != nil {
		return err
	}
	for _, p := range existing {
		pr := p.Range()
		if p.Ongoing {
			pr.End = today
		}
		if interval.Overlaps(r, pr) {
			return fmt.Errorf("%w: %s", ErrConflict, p.ID)
		}
	}

	end := interval.Key(r.End)
	doc := document{
		ID:        uuid.New().String(),
		StartDate: interval.Key(r.Start),
		EndDate:   &end,
		Created:   l.now().UTC(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := l.d.Write(doc.ID, data); err != nil {
		return fmt.Errorf("store: write period: %w", err)
	}
	l.log.WithFields(logrus.Fields{"id": doc.ID, "range": r.String()}).Debug("period stored")
	return nil
}

func (l *Local) DeletePeriodEntry(_ context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" || !l.d.Has(id) {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err := l.d.Erase(id); err != nil {
		return fmt.Errorf("store: erase period: %w", err)
	}
	return nil
}

// keyToPathTransform keeps every period file in one directory.
func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{periodsDir},
		FileName: key + fileExt,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.TrimSuffix(pathKey.FileName, fileExt)
}
