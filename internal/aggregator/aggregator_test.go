package aggregator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skillpulse/internal/errors"
	"skillpulse/internal/models"
	"skillpulse/internal/store"
	"skillpulse/internal/taxonomy"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedPosting(t *testing.T, st *store.MemoryStore, key string, effective time.Time, skills ...string) {
	t.Helper()
	require.NoError(t, st.Insert(context.Background(), &models.JobPosting{
		ID:            "id-" + key,
		Title:         "Engineer",
		Company:       "Acme",
		EffectiveDate: effective,
		Skills:        skills,
		DedupeKey:     key,
	}))
}

func TestRecompute_BuildsDailyCounts(t *testing.T) {
	st := store.NewMemoryStore()
	agg := New(st, taxonomy.Default(), zap.NewNop())

	seedPosting(t, st, "a", day(2025, 6, 1), "python", "react")
	seedPosting(t, st, "b", day(2025, 6, 1), "python")
	seedPosting(t, st, "c", day(2025, 6, 3), "python")

	require.NoError(t, agg.Recompute(context.Background()))

	view := agg.View()
	assert.Equal(t, 2, view.DailyCount("python", day(2025, 6, 1)))
	assert.Equal(t, 0, view.DailyCount("python", day(2025, 6, 2)))
	assert.Equal(t, 1, view.DailyCount("python", day(2025, 6, 3)))
	assert.Equal(t, 1, view.DailyCount("react", day(2025, 6, 1)))
}

func TestRecompute_Idempotent(t *testing.T) {
	st := store.NewMemoryStore()
	agg := New(st, taxonomy.Default(), zap.NewNop())

	seedPosting(t, st, "a", day(2025, 6, 1), "python", "react")
	seedPosting(t, st, "b", day(2025, 6, 2), "react")

	require.NoError(t, agg.Recompute(context.Background()))
	first := st.DailyCounts()

	require.NoError(t, agg.Recompute(context.Background()))
	second := st.DailyCounts()

	assert.Equal(t, first, second)
}

func TestRecompute_WindowingIdentity(t *testing.T) {
	st := store.NewMemoryStore()
	agg := New(st, taxonomy.Default(), zap.NewNop())

	seedPosting(t, st, "a", day(2025, 6, 1), "python")
	seedPosting(t, st, "b", day(2025, 6, 5), "python")
	seedPosting(t, st, "c", day(2025, 6, 9), "python")
	seedPosting(t, st, "d", day(2025, 6, 20), "python")

	require.NoError(t, agg.Recompute(context.Background()))
	view := agg.View()

	from, to := day(2025, 6, 1), day(2025, 6, 10)
	sum := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		sum += view.DailyCount("python", d)
	}
	assert.Equal(t, sum, view.WindowCount("python", from, to))
	assert.Equal(t, 3, view.WindowCount("python", from, to))
}

func TestRecompute_SkipsSkillsOutsideTaxonomy(t *testing.T) {
	st := store.NewMemoryStore()
	agg := New(st, taxonomy.Default(), zap.NewNop())

	seedPosting(t, st, "a", day(2025, 6, 1), "python", "made-up-skill")

	require.NoError(t, agg.Recompute(context.Background()))

	view := agg.View()
	assert.True(t, view.HasSkill("python"))
	assert.False(t, view.HasSkill("made-up-skill"))
}

func TestRecompute_SingleFlight(t *testing.T) {
	st := store.NewMemoryStore()
	agg := New(st, taxonomy.Default(), zap.NewNop())

	// Hold the guard as an in-flight recompute would.
	agg.recomputeMu.Lock()

	err := agg.Recompute(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsAggregationInProgress(err))

	agg.recomputeMu.Unlock()
	assert.NoError(t, agg.Recompute(context.Background()))
}

func TestView_BeforeFirstRecompute(t *testing.T) {
	agg := New(store.NewMemoryStore(), taxonomy.Default(), zap.NewNop())

	view := agg.View()
	require.NotNil(t, view)
	assert.Empty(t, view.Skills())
	assert.Equal(t, 0, view.WindowCount("python", day(2025, 1, 1), day(2025, 12, 31)))
}

func TestView_SwapIsAtomicUnderConcurrentReads(t *testing.T) {
	st := store.NewMemoryStore()
	agg := New(st, taxonomy.Default(), zap.NewNop())

	seedPosting(t, st, "a", day(2025, 6, 1), "python")
	require.NoError(t, agg.Recompute(context.Background()))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				view := agg.View()
				// A served view is internally consistent: either it has the
				// skill with a positive count, or it is the empty snapshot.
				if view.HasSkill("python") {
					assert.GreaterOrEqual(t, view.WindowCount("python", day(2025, 1, 1), day(2025, 12, 31)), 1)
				}
			}
		}()
	}

	for i := 0; i < 10; i++ {
		require.NoError(t, agg.Recompute(context.Background()))
	}
	close(stop)
	wg.Wait()
}

func TestSnapshot_DailyRowsDeterministicOrder(t *testing.T) {
	postings := []models.JobPosting{
		{DedupeKey: "a", EffectiveDate: day(2025, 6, 2), Skills: []string{"react", "python"}},
		{DedupeKey: "b", EffectiveDate: day(2025, 6, 1), Skills: []string{"python"}},
	}
	snap := NewSnapshot(postings, taxonomy.Default(), time.Now())

	rows := snap.DailyRows()
	require.Len(t, rows, 3)
	assert.Equal(t, "python", rows[0].Skill)
	assert.Equal(t, day(2025, 6, 1), rows[0].Date)
	assert.Equal(t, "python", rows[1].Skill)
	assert.Equal(t, day(2025, 6, 2), rows[1].Date)
	assert.Equal(t, "react", rows[2].Skill)
}
