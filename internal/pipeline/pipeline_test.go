package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skillpulse/internal/config"
	"skillpulse/internal/extractor"
	"skillpulse/internal/models"
	"skillpulse/internal/normalizer"
	"skillpulse/internal/store"
	"skillpulse/internal/taxonomy"
)

func newTestPipeline(t *testing.T) (*Pipeline, *store.MemoryStore) {
	t.Helper()

	cfg := &config.Config{
		SkillConfidenceThreshold: 0.7,
		DedupRetentionDays:       90,
		IngestWorkers:            4,
	}
	st := store.NewMemoryStore()
	ex := extractor.New(taxonomy.Default(), cfg.SkillConfidenceThreshold, zap.NewNop())
	n := normalizer.New(ex, zap.NewNop())
	return New(st, n, zap.NewNop(), cfg), st
}

func rawPosting(title, company string, scraped time.Time) models.RawPosting {
	return models.RawPosting{
		Title:       title,
		Company:     company,
		Location:    "Berlin",
		Description: "Required skills: Python and Docker experience",
		ScrapeDate:  scraped,
	}
}

func TestIngestBatch_AcceptsNewPostings(t *testing.T) {
	p, st := newTestPipeline(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	report, err := p.IngestBatch(context.Background(), []models.RawPosting{
		rawPosting("Backend Engineer", "Acme", now),
		rawPosting("Data Engineer", "Initech", now),
	})
	require.NoError(t, err)
	assert.Equal(t, BatchReport{Accepted: 2, Duplicates: 0, Rejected: 0}, report)

	postings, err := st.List(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Len(t, postings, 2)
}

func TestIngestBatch_DeduplicatesRepeatSightings(t *testing.T) {
	p, st := newTestPipeline(t)
	first := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	report, err := p.IngestBatch(context.Background(), []models.RawPosting{
		rawPosting("Backend Engineer", "Acme", first),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Accepted)

	report, err = p.IngestBatch(context.Background(), []models.RawPosting{
		rawPosting("Backend Engineer", "Acme", second),
	})
	require.NoError(t, err)
	assert.Equal(t, BatchReport{Accepted: 0, Duplicates: 1, Rejected: 0}, report)

	// Exactly one stored posting, with last seen advanced.
	postings, err := st.List(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, second, postings[0].LastSeen)
	assert.Equal(t, first, postings[0].FirstSeen)
}

func TestIngestBatch_DuplicateWithinSingleBatch(t *testing.T) {
	p, st := newTestPipeline(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	report, err := p.IngestBatch(context.Background(), []models.RawPosting{
		rawPosting("Backend Engineer", "Acme", now),
		rawPosting("Backend Engineer", "Acme", now),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 1, report.Duplicates)

	postings, err := st.List(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Len(t, postings, 1)
}

func TestIngestBatch_IsolatesInvalidRecords(t *testing.T) {
	p, _ := newTestPipeline(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	report, err := p.IngestBatch(context.Background(), []models.RawPosting{
		{Location: "Nowhere", Description: "no title or company", ScrapeDate: now},
		rawPosting("Backend Engineer", "Acme", now),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 1, report.Rejected)
}

func TestIngestBatch_SightingBeyondHorizonCountsAccepted(t *testing.T) {
	p, st := newTestPipeline(t)
	first := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	muchLater := first.AddDate(0, 0, 120)

	_, err := p.IngestBatch(context.Background(), []models.RawPosting{
		rawPosting("Backend Engineer", "Acme", first),
	})
	require.NoError(t, err)

	report, err := p.IngestBatch(context.Background(), []models.RawPosting{
		rawPosting("Backend Engineer", "Acme", muchLater),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 0, report.Duplicates)

	// Still a single stored posting.
	postings, err := st.List(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, muchLater, postings[0].LastSeen)
}

func TestIngestBatch_EmptyBatch(t *testing.T) {
	p, _ := newTestPipeline(t)

	report, err := p.IngestBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, BatchReport{}, report)
}

func TestIngestBatch_CancelledContextAbandonsBatch(t *testing.T) {
	p, _ := newTestPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	_, err := p.IngestBatch(ctx, []models.RawPosting{
		rawPosting("Backend Engineer", "Acme", now),
	})
	assert.Error(t, err)
}

func TestIngestBatch_SkillsAttached(t *testing.T) {
	p, st := newTestPipeline(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	_, err := p.IngestBatch(context.Background(), []models.RawPosting{
		rawPosting("Backend Engineer", "Acme", now),
	})
	require.NoError(t, err)

	postings, err := st.List(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Contains(t, postings[0].Skills, "python")
	assert.Contains(t, postings[0].Skills, "docker")
}
