package query

import (
	"context"
	"encoding"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skillpulse/internal/aggregator"
	"skillpulse/internal/cache"
	"skillpulse/internal/config"
	domainerrors "skillpulse/internal/errors"
	"skillpulse/internal/market"
	"skillpulse/internal/models"
	"skillpulse/internal/store"
	"skillpulse/internal/taxonomy"
	"skillpulse/internal/trends"
)

// memCache is a minimal in-process cache.Cache for tests.
type memCache struct {
	data map[string][]byte
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m, ok := value.(encoding.BinaryMarshaler)
	if !ok {
		return cache.ErrInvalidValue
	}
	raw, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.sets++
	return nil
}

func (c *memCache) Get(_ context.Context, key string, value interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrNotFound
	}
	u, ok := value.(encoding.BinaryUnmarshaler)
	if !ok {
		return cache.ErrInvalidValue
	}
	return u.UnmarshalBinary(raw)
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memCache) Clear(_ context.Context) error {
	c.data = make(map[string][]byte)
	return nil
}

func (c *memCache) Close() error { return nil }

// brokenCache fails every operation, standing in for an unreachable Redis.
type brokenCache struct{}

func (brokenCache) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("redis down")
}
func (brokenCache) Get(context.Context, string, interface{}) error { return errors.New("redis down") }
func (brokenCache) Delete(context.Context, string) error           { return errors.New("redis down") }
func (brokenCache) Clear(context.Context) error                    { return errors.New("redis down") }
func (brokenCache) Close() error                                   { return nil }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T, c cache.Cache) (*Service, *store.MemoryStore) {
	t.Helper()

	cfg := &config.Config{
		TrendCalculationDays: 30,
		CacheTTL:             time.Minute,
	}
	tax := taxonomy.Default()
	st := store.NewMemoryStore()
	agg := aggregator.New(st, tax, zap.NewNop())

	svc := New(agg, trends.NewCalculator(tax, zap.NewNop()),
		market.NewBuilder(tax, zap.NewNop()), st, c, cfg, zap.NewNop())
	svc.now = func() time.Time { return day(2025, 6, 30) }

	seed := func(key string, effective time.Time, skills ...string) {
		require.NoError(t, st.Insert(context.Background(), &models.JobPosting{
			ID:            "id-" + key,
			Title:         "Engineer",
			Company:       "Acme",
			Location:      "Berlin",
			EffectiveDate: effective,
			Skills:        skills,
			DedupeKey:     key,
		}))
	}
	seed("a", day(2025, 6, 28), "python", "docker")
	seed("b", day(2025, 6, 29), "python")
	require.NoError(t, agg.Recompute(context.Background()))

	return svc, st
}

func TestSkillTrend_ComputesAndCaches(t *testing.T) {
	c := newMemCache()
	svc, _ := newTestService(t, c)

	trend, err := svc.SkillTrend(context.Background(), "python")
	require.NoError(t, err)
	assert.Equal(t, "python", trend.SkillName)
	assert.Equal(t, 2, trend.JobCount30d)
	assert.Equal(t, 1, c.sets)

	// Second call is answered from the cache without a new Set.
	again, err := svc.SkillTrend(context.Background(), "python")
	require.NoError(t, err)
	assert.Equal(t, trend, again)
	assert.Equal(t, 1, c.sets)
}

func TestSkillTrend_NotFoundNotCached(t *testing.T) {
	c := newMemCache()
	svc, _ := newTestService(t, c)

	_, err := svc.SkillTrend(context.Background(), "kubernetes")
	require.Error(t, err)
	assert.True(t, domainerrors.IsNotFound(err))
	assert.Equal(t, 0, c.sets)
}

func TestSkillTrend_SurvivesCacheOutage(t *testing.T) {
	svc, _ := newTestService(t, brokenCache{})

	trend, err := svc.SkillTrend(context.Background(), "python")
	require.NoError(t, err)
	assert.Equal(t, 2, trend.JobCount30d)
}

func TestTrendingSkills_CachedPerOptions(t *testing.T) {
	c := newMemCache()
	svc, _ := newTestService(t, c)

	list, err := svc.TrendingSkills(context.Background(), trends.TrendingOptions{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalCount)
	assert.Equal(t, "python", list.Skills[0].SkillName)

	filtered, err := svc.TrendingSkills(context.Background(), trends.TrendingOptions{
		Limit:    10,
		Category: taxonomy.CategoryDevOps,
	})
	require.NoError(t, err)
	require.Len(t, filtered.Skills, 1)
	assert.Equal(t, "docker", filtered.Skills[0].SkillName)

	// Distinct cache entries for distinct option sets.
	assert.Equal(t, 2, c.sets)
}

func TestSkillTimeline_DefaultsToConfiguredWindow(t *testing.T) {
	svc, _ := newTestService(t, newMemCache())

	analytics, err := svc.SkillTimeline(context.Background(), "python", 0)
	require.NoError(t, err)
	assert.Equal(t, 30, analytics.PeriodDays)
	assert.Len(t, analytics.Timeline, 30)
	assert.Equal(t, 2, analytics.TotalJobs)
}

func TestMarketSummary_Cached(t *testing.T) {
	c := newMemCache()
	svc, _ := newTestService(t, c)

	summary, err := svc.MarketSummary(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalJobs)
	assert.Equal(t, 30, summary.WindowDays)

	_, err = svc.MarketSummary(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, c.sets)
}

func TestSkillCategories(t *testing.T) {
	svc, _ := newTestService(t, newMemCache())

	breakdown, err := svc.SkillCategories(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, string(taxonomy.CategoryProgramming), breakdown[0].Category)
	assert.Equal(t, 2, breakdown[0].JobCount)
}

func TestInvalidateCache_DropsStaleResults(t *testing.T) {
	c := newMemCache()
	svc, st := newTestService(t, c)

	_, err := svc.SkillTrend(context.Background(), "python")
	require.NoError(t, err)

	require.NoError(t, st.Insert(context.Background(), &models.JobPosting{
		ID: "id-c", Title: "Engineer", Company: "Acme", Location: "Berlin",
		EffectiveDate: day(2025, 6, 30), Skills: []string{"python"}, DedupeKey: "c",
	}))
	require.NoError(t, svc.agg.Recompute(context.Background()))
	svc.InvalidateCache(context.Background())

	trend, err := svc.SkillTrend(context.Background(), "python")
	require.NoError(t, err)
	assert.Equal(t, 3, trend.JobCount30d)
}

func TestStats_ReadsStoreDirectly(t *testing.T) {
	svc, _ := newTestService(t, newMemCache())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPostings)
}
