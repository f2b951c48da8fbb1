// Package store persists logged periods and answers the reads the calendar
// needs: period history, predictions and the current cycle status.
package store

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"tableflip.dev/cycle/pkg/period"
)

var (
	ErrNotFound = errors.New("store: period not found")
	ErrConflict = errors.New("store: period overlaps an existing period")
)

// Store is the period store contract.
type Store interface {
	FetchPeriodHistory(ctx context.Context) ([]period.Record, error)
	FetchPredictions(ctx context.Context, monthsAhead int) ([]period.PredictionRecord, error)
	FetchCycleStatus(ctx context.Context) (period.CycleStatus, error)
	CreatePeriodEntry(ctx context.Context, c period.Candidate) error
	DeletePeriodEntry(ctx context.Context, id string) error
}

// Watcher is implemented by stores that can report changes made by other
// processes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Open returns the HTTP store when a remote URL is configured and the local
// disk store otherwise.
func Open(cfg Config, log *logrus.Entry) (Store, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	if cfg.RemoteURL() != "" {
		return NewRemote(cfg, log), nil
	}
	return Load(cfg, log)
}
