// Package query is the read side: it answers analytics queries from the
// aggregator's materialized view, with a Redis-backed result cache in front.
// Cache failures degrade to a recompute, never to a query error.
package query

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"skillpulse/internal/aggregator"
	"skillpulse/internal/cache"
	"skillpulse/internal/config"
	"skillpulse/internal/market"
	"skillpulse/internal/models"
	"skillpulse/internal/store"
	"skillpulse/internal/telemetry"
	"skillpulse/internal/trends"
)

var tracer = telemetry.GetTracer("skillpulse/query")

type Service struct {
	agg    *aggregator.Aggregator
	trends *trends.Calculator
	market *market.Builder
	store  store.PostingStore
	cache  cache.Cache
	config *config.Config
	logger *zap.Logger

	now func() time.Time
}

func New(agg *aggregator.Aggregator, calc *trends.Calculator, builder *market.Builder,
	st store.PostingStore, c cache.Cache, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		agg:    agg,
		trends: calc,
		market: builder,
		store:  st,
		cache:  c,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// SkillTrend returns the trend record for one skill. Not-found results are
// never cached so a skill becomes visible right after its first aggregation.
func (s *Service) SkillTrend(ctx context.Context, skill string) (*models.SkillTrend, error) {
	ctx, span := tracer.Start(ctx, "Query.SkillTrend")
	defer span.End()
	span.SetAttributes(telemetry.String("query.skill", skill))

	cacheKey := fmt.Sprintf("skillpulse:trend:%s", skill)
	var cached models.SkillTrend
	if s.cacheGet(ctx, cacheKey, &cached) {
		span.SetAttributes(telemetry.String("cache.result", "hit"))
		return &cached, nil
	}

	trend, err := s.trends.SkillTrend(s.agg.View(), skill, s.now())
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, trend)
	return trend, nil
}

func (s *Service) TrendingSkills(ctx context.Context, opts trends.TrendingOptions) (*models.SkillTrendList, error) {
	ctx, span := tracer.Start(ctx, "Query.TrendingSkills")
	defer span.End()

	if opts.AsOf.IsZero() {
		opts.AsOf = s.now()
	}

	cacheKey := fmt.Sprintf("skillpulse:trending:%s:%s:%d", opts.Category, opts.SortBy, opts.Limit)
	var cached models.SkillTrendList
	if s.cacheGet(ctx, cacheKey, &cached) {
		span.SetAttributes(telemetry.String("cache.result", "hit"))
		return &cached, nil
	}

	list := s.trends.TrendingSkills(s.agg.View(), opts)
	span.SetAttributes(telemetry.Int("query.skills", list.TotalCount))

	s.cacheSet(ctx, cacheKey, list)
	return list, nil
}

// SkillTimeline returns the zero-filled daily series for a skill. A
// non-positive days falls back to the configured trend window.
func (s *Service) SkillTimeline(ctx context.Context, skill string, days int) (*models.SkillAnalytics, error) {
	ctx, span := tracer.Start(ctx, "Query.SkillTimeline")
	defer span.End()

	if days <= 0 {
		days = s.config.TrendCalculationDays
	}
	span.SetAttributes(
		telemetry.String("query.skill", skill),
		telemetry.Int("query.days", days),
	)

	cacheKey := fmt.Sprintf("skillpulse:timeline:%s:%d", skill, days)
	var cached models.SkillAnalytics
	if s.cacheGet(ctx, cacheKey, &cached) {
		span.SetAttributes(telemetry.String("cache.result", "hit"))
		return &cached, nil
	}

	analytics, err := s.trends.Timeline(s.agg.View(), skill, days, s.now())
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, analytics)
	return analytics, nil
}

func (s *Service) MarketSummary(ctx context.Context, days int) (*models.MarketSummary, error) {
	ctx, span := tracer.Start(ctx, "Query.MarketSummary")
	defer span.End()

	if days <= 0 {
		days = s.config.TrendCalculationDays
	}
	span.SetAttributes(telemetry.Int("query.days", days))

	cacheKey := fmt.Sprintf("skillpulse:market:%d", days)
	var cached models.MarketSummary
	if s.cacheGet(ctx, cacheKey, &cached) {
		span.SetAttributes(telemetry.String("cache.result", "hit"))
		return &cached, nil
	}

	summary := s.market.Build(s.agg.View(), days, s.now())

	s.cacheSet(ctx, cacheKey, summary)
	return summary, nil
}

func (s *Service) SkillCategories(ctx context.Context, days int) ([]models.CategoryBreakdown, error) {
	ctx, span := tracer.Start(ctx, "Query.SkillCategories")
	defer span.End()

	if days <= 0 {
		days = s.config.TrendCalculationDays
	}

	cacheKey := fmt.Sprintf("skillpulse:categories:%d", days)
	var cached models.CategoryBreakdownList
	if s.cacheGet(ctx, cacheKey, &cached) {
		span.SetAttributes(telemetry.String("cache.result", "hit"))
		return cached.Categories, nil
	}

	breakdown := s.market.Categories(s.agg.View(), days, s.now())

	s.cacheSet(ctx, cacheKey, models.CategoryBreakdownList{Categories: breakdown})
	return breakdown, nil
}

// Stats reads live counters straight from the store, bypassing both the
// materialized view and the cache.
func (s *Service) Stats(ctx context.Context) (models.StoreStats, error) {
	ctx, span := tracer.Start(ctx, "Query.Stats")
	defer span.End()

	return s.store.Stats(ctx)
}

// InvalidateCache drops every cached query result. The scheduler calls this
// after a successful recomputation so readers see fresh numbers at once.
func (s *Service) InvalidateCache(ctx context.Context) {
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear query cache", zap.Error(err))
	}
}

func (s *Service) cacheGet(ctx context.Context, key string, value interface{}) bool {
	err := s.cache.Get(ctx, key, value)
	if err == nil {
		s.logger.Debug("query cache hit", zap.String("key", key))
		return true
	}
	if err != cache.ErrNotFound {
		s.logger.Warn("query cache error", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (s *Service) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.config.CacheTTL); err != nil {
		s.logger.Warn("failed to cache query result", zap.String("key", key), zap.Error(err))
	}
}
