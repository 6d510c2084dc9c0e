// Package store holds the posting repository: the persistence boundary for
// accepted postings and the materialized daily counts.
package store

import (
	"context"
	"time"

	"skillpulse/internal/models"
)

// PostingStore persists accepted postings and the rebuilt daily time series.
// Postings are immutable after insert except for the last-seen refresh on
// repeat sightings; daily counts are a disposable view replaced wholesale on
// every recompute.
type PostingStore interface {
	Insert(ctx context.Context, posting *models.JobPosting) error

	// FindByDedupeKey returns the stored posting for a dedup key, or a
	// not-found error when the key has never been admitted.
	FindByDedupeKey(ctx context.Context, key string) (*models.JobPosting, error)

	// TouchLastSeen advances the last-seen date of an existing posting.
	TouchLastSeen(ctx context.Context, key string, seen time.Time) error

	// List returns postings whose effective date is on or after since. A zero
	// since returns everything.
	List(ctx context.Context, since time.Time) ([]models.JobPosting, error)

	// DeleteOlderThan removes postings whose effective date is before the
	// cutoff and returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	// ReplaceDailyCounts swaps the materialized per-skill per-day table for
	// the given rows.
	ReplaceDailyCounts(ctx context.Context, counts []models.SkillDailyCount) error

	Stats(ctx context.Context) (models.StoreStats, error)
}
