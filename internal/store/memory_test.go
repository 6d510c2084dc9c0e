package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillpulse/internal/errors"
	"skillpulse/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testPosting(key string, effective time.Time, skills ...string) *models.JobPosting {
	return &models.JobPosting{
		ID:            "id-" + key,
		Title:         "Engineer",
		Company:       "Acme",
		EffectiveDate: effective,
		Skills:        skills,
		DedupeKey:     key,
		FirstSeen:     effective,
		LastSeen:      effective,
	}
}

func TestMemoryStore_InsertAndFind(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testPosting("k1", day(2025, 6, 1), "python")))

	found, err := s.FindByDedupeKey(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "id-k1", found.ID)

	_, err = s.FindByDedupeKey(ctx, "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestMemoryStore_InsertRejectsDuplicateKey(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testPosting("k1", day(2025, 6, 1))))
	assert.Error(t, s.Insert(ctx, testPosting("k1", day(2025, 6, 2))))
}

func TestMemoryStore_TouchLastSeen(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testPosting("k1", day(2025, 6, 1))))
	require.NoError(t, s.TouchLastSeen(ctx, "k1", day(2025, 6, 5)))

	found, err := s.FindByDedupeKey(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, day(2025, 6, 5), found.LastSeen)

	// An older sighting must not move last seen backwards.
	require.NoError(t, s.TouchLastSeen(ctx, "k1", day(2025, 6, 2)))
	found, err = s.FindByDedupeKey(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, day(2025, 6, 5), found.LastSeen)

	err = s.TouchLastSeen(ctx, "missing", day(2025, 6, 5))
	assert.True(t, errors.IsNotFound(err))
}

func TestMemoryStore_ListSince(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testPosting("old", day(2025, 5, 1))))
	require.NoError(t, s.Insert(ctx, testPosting("new", day(2025, 6, 10))))

	all, err := s.List(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	recent, err := s.List(ctx, day(2025, 6, 1))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "new", recent[0].DedupeKey)
}

func TestMemoryStore_DeleteOlderThan(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testPosting("old", day(2025, 1, 1))))
	require.NoError(t, s.Insert(ctx, testPosting("new", day(2025, 6, 10))))

	deleted, err := s.DeleteOlderThan(ctx, day(2025, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = s.FindByDedupeKey(ctx, "old")
	assert.True(t, errors.IsNotFound(err))
}

func TestMemoryStore_ReplaceDailyCounts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := []models.SkillDailyCount{{Skill: "python", Date: day(2025, 6, 1), JobCount: 3}}
	require.NoError(t, s.ReplaceDailyCounts(ctx, first))
	assert.Len(t, s.DailyCounts(), 1)

	second := []models.SkillDailyCount{
		{Skill: "react", Date: day(2025, 6, 1), JobCount: 1},
		{Skill: "react", Date: day(2025, 6, 2), JobCount: 2},
	}
	require.NoError(t, s.ReplaceDailyCounts(ctx, second))

	counts := s.DailyCounts()
	require.Len(t, counts, 2)
	assert.Equal(t, "react", counts[0].Skill)
}

func TestMemoryStore_Stats(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	today := models.DayUTC(time.Now())
	require.NoError(t, s.Insert(ctx, testPosting("a", today, "python", "react")))
	require.NoError(t, s.Insert(ctx, testPosting("b", today.AddDate(0, 0, -60), "python")))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPostings)
	assert.Equal(t, 2, stats.UniqueSkills)
	assert.Equal(t, 1, stats.RecentJobs7d)
}
