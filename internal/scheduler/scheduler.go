// Package scheduler drives the periodic maintenance cycle: retention cleanup
// followed by an aggregation refresh, on a fixed interval.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"skillpulse/internal/aggregator"
	"skillpulse/internal/config"
	"skillpulse/internal/errors"
	"skillpulse/internal/query"
	"skillpulse/internal/store"
	"skillpulse/internal/telemetry"
)

var tracer = telemetry.GetTracer("skillpulse/scheduler")

type Scheduler struct {
	store    store.PostingStore
	agg      *aggregator.Aggregator
	query    *query.Service
	logger   *zap.Logger
	config   *config.Config
	mutex    sync.Mutex
	isActive bool
}

func New(st store.PostingStore, agg *aggregator.Aggregator, q *query.Service,
	logger *zap.Logger, cfg *config.Config) *Scheduler {
	return &Scheduler{
		store:  st,
		agg:    agg,
		query:  q,
		logger: logger,
		config: cfg,
	}
}

// Start runs the maintenance loop until the context is cancelled. A second
// Start while one is running is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Scheduler.Start")
	defer span.End()

	s.mutex.Lock()
	if s.isActive {
		s.mutex.Unlock()
		return nil
	}
	s.isActive = true
	s.mutex.Unlock()
	defer s.Stop()

	ticker := time.NewTicker(s.config.AggregationInterval)
	defer ticker.Stop()

	if err := s.runCycle(ctx); err != nil {
		s.logger.Error("initial maintenance cycle failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				s.logger.Error("maintenance cycle failed", zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.isActive = false
}

// runCycle prunes expired postings and rebuilds the daily series. A refresh
// already in flight makes the rebuild a deferred no-op, not an error.
func (s *Scheduler) runCycle(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Scheduler.runCycle")
	defer span.End()

	cutoff := time.Now().UTC().AddDate(0, 0, -s.config.PostingRetentionDays)
	deleted, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("retention cleanup failed", err)
	}
	if deleted > 0 {
		s.logger.Info("pruned expired postings",
			zap.Int("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
	span.SetAttributes(telemetry.Int("retention.deleted", deleted))

	switch err := s.agg.Recompute(ctx); {
	case err == nil:
		s.query.InvalidateCache(ctx)
	case errors.IsAggregationInProgress(err):
		s.logger.Debug("aggregation already in progress, skipping refresh")
	default:
		span.RecordError(err)
		return err
	}

	return nil
}
