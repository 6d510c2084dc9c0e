// Package aggregator rebuilds the per-skill daily time series from stored
// postings and serves it as an atomically swapped materialized view.
package aggregator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"skillpulse/internal/errors"
	"skillpulse/internal/store"
	"skillpulse/internal/taxonomy"
	"skillpulse/internal/telemetry"
)

var tracer = telemetry.GetTracer("skillpulse/aggregator")

type Aggregator struct {
	store  store.PostingStore
	tax    *taxonomy.Taxonomy
	logger *zap.Logger

	// recomputeMu enforces at most one recomputation system-wide; a trigger
	// while one is running is a deferred no-op.
	recomputeMu sync.Mutex
	view        atomic.Pointer[Snapshot]
}

func New(st store.PostingStore, tax *taxonomy.Taxonomy, logger *zap.Logger) *Aggregator {
	a := &Aggregator{
		store:  st,
		tax:    tax,
		logger: logger,
	}
	a.view.Store(EmptySnapshot())
	return a
}

// Recompute rebuilds the daily series from the full posting set, persists it,
// and swaps the served view. The rebuild is a full recompute, so re-running
// it on unchanged data is idempotent. If a recomputation is already in
// flight the trigger returns an aggregation-in-progress error the caller
// treats as a deferral, not a failure. A store failure aborts the cycle and
// leaves the previous view serving.
func (a *Aggregator) Recompute(ctx context.Context) error {
	if !a.recomputeMu.TryLock() {
		return errors.AggregationInProgress("recomputation already running")
	}
	defer a.recomputeMu.Unlock()

	ctx, span := tracer.Start(ctx, "Aggregator.Recompute")
	defer span.End()

	started := time.Now()

	postings, err := a.store.List(ctx, time.Time{})
	if err != nil {
		span.RecordError(err)
		a.logger.Error("recompute aborted, keeping previous view", zap.Error(err))
		return errors.Unavailable("listing postings for recompute", err)
	}

	snapshot := NewSnapshot(postings, a.tax, started)
	rows := snapshot.DailyRows()

	if err := a.store.ReplaceDailyCounts(ctx, rows); err != nil {
		span.RecordError(err)
		a.logger.Error("recompute aborted, keeping previous view", zap.Error(err))
		return errors.Unavailable("persisting daily counts", err)
	}

	a.view.Store(snapshot)

	span.SetAttributes(
		telemetry.Int("recompute.postings", len(postings)),
		telemetry.Int("recompute.daily_rows", len(rows)),
	)
	a.logger.Info("recomputed daily series",
		zap.Int("postings", len(postings)),
		zap.Int("daily_rows", len(rows)),
		zap.Duration("took", time.Since(started)))
	return nil
}

// View returns the last successfully swapped snapshot. Readers may hold it
// across an in-progress recompute; it never mutates.
func (a *Aggregator) View() *Snapshot {
	return a.view.Load()
}
