// Package events wires the ingestion pipeline to NATS: scraped posting
// batches arrive on a queue subscription and flow through normalization,
// dedup and aggregation refresh.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"skillpulse/internal/aggregator"
	"skillpulse/internal/config"
	"skillpulse/internal/errors"
	"skillpulse/internal/models"
	"skillpulse/internal/pipeline"
	"skillpulse/internal/query"
	"skillpulse/internal/telemetry"
)

var tracer = telemetry.GetTracer("skillpulse/events")

const (
	rawPostingsSubject = "postings.raw"
	ingestQueue        = "skillpulse-ingest"
)

type Handler struct {
	logger   *zap.Logger
	nc       *nats.Conn
	pipeline *pipeline.Pipeline
	agg      *aggregator.Aggregator
	query    *query.Service
	config   *config.Config
	sub      *nats.Subscription
}

func NewHandler(logger *zap.Logger, nc *nats.Conn, p *pipeline.Pipeline,
	agg *aggregator.Aggregator, q *query.Service, cfg *config.Config) *Handler {
	return &Handler{
		logger:   logger,
		nc:       nc,
		pipeline: p,
		agg:      agg,
		query:    q,
		config:   cfg,
	}
}

func (h *Handler) RegisterSubscriptions(lc fx.Lifecycle) error {
	sub, err := h.nc.QueueSubscribe(rawPostingsSubject, ingestQueue, h.handleRawBatch)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", rawPostingsSubject, err)
	}

	h.sub = sub
	h.logger.Info("Registered NATS subscriptions",
		zap.String("subject", rawPostingsSubject),
		zap.String("queue", ingestQueue))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return h.sub.Unsubscribe()
		},
	})

	return nil
}

func (h *Handler) handleRawBatch(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.BatchTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "handleRawBatch")
	defer span.End()

	batch, err := decodeBatch(msg.Data)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to decode raw posting batch",
			zap.Error(err),
			zap.String("subject", msg.Subject))
		return
	}

	report, err := h.pipeline.IngestBatch(ctx, batch)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to ingest posting batch",
			zap.Error(err),
			zap.String("subject", msg.Subject))
		return
	}

	span.SetAttributes(
		telemetry.Int("batch.accepted", report.Accepted),
		telemetry.Int("batch.duplicates", report.Duplicates),
		telemetry.Int("batch.rejected", report.Rejected),
	)
	h.logger.Info("Ingested posting batch",
		zap.String("subject", msg.Subject),
		zap.Int("accepted", report.Accepted),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("rejected", report.Rejected))

	if report.Accepted == 0 {
		return
	}
	h.refresh(ctx)
}

func (h *Handler) refresh(ctx context.Context) {
	err := h.agg.Recompute(ctx)
	switch {
	case err == nil:
		h.query.InvalidateCache(ctx)
	case errors.IsAggregationInProgress(err):
		// Another trigger is already rebuilding; the running cycle will pick
		// up this batch's postings or the next tick will.
		h.logger.Debug("Aggregation already in progress, skipping refresh")
	default:
		h.logger.Error("Failed to refresh aggregation after batch", zap.Error(err))
	}
}

// decodeBatch accepts either a JSON array of raw postings or a single object.
func decodeBatch(data []byte) ([]models.RawPosting, error) {
	var batch []models.RawPosting
	if err := json.Unmarshal(data, &batch); err == nil {
		return batch, nil
	}

	var single models.RawPosting
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, errors.InvalidRecord("malformed raw posting payload", err)
	}
	return []models.RawPosting{single}, nil
}
