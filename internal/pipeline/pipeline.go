// Package pipeline drives batch ingestion: normalize, extract, dedup, persist.
package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"skillpulse/internal/config"
	"skillpulse/internal/errors"
	"skillpulse/internal/models"
	"skillpulse/internal/normalizer"
	"skillpulse/internal/store"
	"skillpulse/internal/telemetry"
)

var tracer = telemetry.GetTracer("skillpulse/pipeline")

// BatchReport summarizes one ingestion batch.
type BatchReport struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
	Rejected   int `json:"rejected"`
}

type Pipeline struct {
	store      store.PostingStore
	normalizer *normalizer.Normalizer
	logger     *zap.Logger
	config     *config.Config

	// admitMu serializes the dedup check and insert so two concurrent
	// batches cannot both admit the same posting.
	admitMu sync.Mutex
}

func New(st store.PostingStore, n *normalizer.Normalizer, logger *zap.Logger, cfg *config.Config) *Pipeline {
	return &Pipeline{
		store:      st,
		normalizer: n,
		logger:     logger,
		config:     cfg,
	}
}

// IngestBatch processes a batch of raw postings. Normalization and extraction
// run across a worker pool; admission is serialized on the dedup key. A
// failure on one record is logged and counted, never fatal to the batch. A
// cancelled context abandons the remainder of the batch; already-persisted
// postings stay.
func (p *Pipeline) IngestBatch(ctx context.Context, raws []models.RawPosting) (BatchReport, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.IngestBatch")
	span.SetAttributes(telemetry.Int("batch.size", len(raws)))
	defer span.End()

	var accepted, duplicates, rejected int32

	rawChan := make(chan models.RawPosting)
	normalizedChan := make(chan *models.JobPosting)

	workers := p.config.IngestWorkers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for raw := range rawChan {
				posting, err := p.normalizer.Normalize(raw)
				if err != nil {
					atomic.AddInt32(&rejected, 1)
					p.logger.Warn("rejected raw posting",
						zap.String("title", raw.Title),
						zap.String("company", raw.Company),
						zap.Error(err))
					continue
				}
				select {
				case normalizedChan <- posting:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(rawChan)
		for _, raw := range raws {
			select {
			case rawChan <- raw:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(normalizedChan)
	}()

	for posting := range normalizedChan {
		if ctx.Err() != nil {
			break
		}
		switch p.admit(ctx, posting) {
		case admitAccepted:
			atomic.AddInt32(&accepted, 1)
		case admitDuplicate:
			atomic.AddInt32(&duplicates, 1)
		case admitFailed:
			atomic.AddInt32(&rejected, 1)
		}
	}

	report := BatchReport{
		Accepted:   int(atomic.LoadInt32(&accepted)),
		Duplicates: int(atomic.LoadInt32(&duplicates)),
		Rejected:   int(atomic.LoadInt32(&rejected)),
	}

	span.SetAttributes(
		telemetry.Int("batch.accepted", report.Accepted),
		telemetry.Int("batch.duplicates", report.Duplicates),
		telemetry.Int("batch.rejected", report.Rejected),
	)

	if err := ctx.Err(); err != nil {
		p.logger.Warn("ingestion batch abandoned",
			zap.Int("accepted", report.Accepted),
			zap.Int("duplicates", report.Duplicates),
			zap.Int("rejected", report.Rejected),
			zap.Error(err))
		return report, errors.Internal("ingestion batch abandoned", err)
	}

	p.logger.Info("ingestion batch complete",
		zap.Int("accepted", report.Accepted),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("rejected", report.Rejected))
	return report, nil
}

type admitResult int

const (
	admitAccepted admitResult = iota
	admitDuplicate
	admitFailed
)

func (p *Pipeline) admit(ctx context.Context, posting *models.JobPosting) admitResult {
	p.admitMu.Lock()
	defer p.admitMu.Unlock()

	existing, err := p.store.FindByDedupeKey(ctx, posting.DedupeKey)
	if err != nil {
		if !errors.IsNotFound(err) {
			p.logger.Error("dedup check failed",
				zap.String("dedupe_key", posting.DedupeKey),
				zap.Error(err))
			return admitFailed
		}

		if err := p.store.Insert(ctx, posting); err != nil {
			p.logger.Error("failed to persist posting",
				zap.String("dedupe_key", posting.DedupeKey),
				zap.Error(err))
			return admitFailed
		}
		return admitAccepted
	}

	if err := p.store.TouchLastSeen(ctx, posting.DedupeKey, posting.LastSeen); err != nil {
		p.logger.Warn("failed to refresh last seen",
			zap.String("dedupe_key", posting.DedupeKey),
			zap.Error(err))
	}

	// A sighting outside the dedup retention horizon counts as a fresh
	// acceptance; the stored posting is reused, only last seen moves.
	horizon := time.Duration(p.config.DedupRetentionDays) * 24 * time.Hour
	if p.config.DedupRetentionDays > 0 && posting.LastSeen.Sub(existing.LastSeen) > horizon {
		return admitAccepted
	}
	return admitDuplicate
}
