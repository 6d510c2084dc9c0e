package store

import (
	"context"
	"sync"
	"time"

	"skillpulse/internal/errors"
	"skillpulse/internal/models"
)

// MemoryStore is an in-process PostingStore used by tests and as a fallback
// when no database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	postings map[string]models.JobPosting
	daily    []models.SkillDailyCount
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		postings: make(map[string]models.JobPosting),
	}
}

func (s *MemoryStore) Insert(_ context.Context, posting *models.JobPosting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.postings[posting.DedupeKey]; exists {
		return errors.Internal("posting already exists for dedup key "+posting.DedupeKey, nil)
	}
	s.postings[posting.DedupeKey] = *posting
	return nil
}

func (s *MemoryStore) FindByDedupeKey(_ context.Context, key string) (*models.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posting, ok := s.postings[key]
	if !ok {
		return nil, errors.NotFound("no posting for dedup key "+key, nil)
	}
	return &posting, nil
}

func (s *MemoryStore) TouchLastSeen(_ context.Context, key string, seen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posting, ok := s.postings[key]
	if !ok {
		return errors.NotFound("no posting for dedup key "+key, nil)
	}
	if seen.After(posting.LastSeen) {
		posting.LastSeen = seen
		s.postings[key] = posting
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context, since time.Time) ([]models.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.JobPosting, 0, len(s.postings))
	for _, posting := range s.postings {
		if !since.IsZero() && posting.EffectiveDate.Before(since) {
			continue
		}
		out = append(out, posting)
	}
	return out, nil
}

func (s *MemoryStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for key, posting := range s.postings {
		if posting.EffectiveDate.Before(cutoff) {
			delete(s.postings, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryStore) ReplaceDailyCounts(_ context.Context, counts []models.SkillDailyCount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.daily = make([]models.SkillDailyCount, len(counts))
	copy(s.daily, counts)
	return nil
}

// DailyCounts returns the last materialized daily rows. Test helper.
func (s *MemoryStore) DailyCounts() []models.SkillDailyCount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SkillDailyCount, len(s.daily))
	copy(out, s.daily)
	return out
}

func (s *MemoryStore) Stats(_ context.Context) (models.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skills := make(map[string]struct{})
	recentCutoff := models.DayUTC(time.Now()).AddDate(0, 0, -6)
	recent := 0
	for _, posting := range s.postings {
		for _, skill := range posting.Skills {
			skills[skill] = struct{}{}
		}
		if !posting.EffectiveDate.Before(recentCutoff) {
			recent++
		}
	}

	return models.StoreStats{
		TotalPostings: len(s.postings),
		UniqueSkills:  len(skills),
		RecentJobs7d:  recent,
	}, nil
}
