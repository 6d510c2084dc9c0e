package store

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"

	"skillpulse/internal/errors"
	"skillpulse/internal/models"
	"skillpulse/internal/telemetry"
)

var tracer = telemetry.GetTracer("skillpulse/store")

const postingColumns = `
	id, title, company, location,
	norm_title, norm_company, norm_location,
	posted_date, scrape_date, effective_date, date_source,
	description, source_url, salary_min, salary_max,
	skills_extracted, dedupe_key, first_seen, last_seen`

// ClickHouseStore persists postings in a ReplacingMergeTree keyed by dedup
// key; the last-seen refresh is a re-insert that the engine collapses.
type ClickHouseStore struct {
	conn   clickhouse.Conn
	logger *zap.Logger
}

func NewClickHouseStore(conn clickhouse.Conn, logger *zap.Logger) *ClickHouseStore {
	return &ClickHouseStore{
		conn:   conn,
		logger: logger,
	}
}

func (s *ClickHouseStore) Insert(ctx context.Context, posting *models.JobPosting) error {
	ctx, span := tracer.Start(ctx, "ClickHouseStore.Insert")
	defer span.End()

	query := `
		INSERT INTO postings (` + postingColumns + `
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if err := s.conn.Exec(ctx, query,
		posting.ID,
		posting.Title,
		posting.Company,
		posting.Location,
		posting.NormTitle,
		posting.NormCompany,
		posting.NormLocation,
		posting.PostedDate,
		posting.ScrapeDate,
		posting.EffectiveDate,
		string(posting.DateSource),
		posting.Description,
		posting.SourceURL,
		posting.SalaryMin,
		posting.SalaryMax,
		posting.Skills,
		posting.DedupeKey,
		posting.FirstSeen,
		posting.LastSeen,
	); err != nil {
		span.RecordError(err)
		return errors.Unavailable("insert posting", err)
	}

	return nil
}

func (s *ClickHouseStore) FindByDedupeKey(ctx context.Context, key string) (*models.JobPosting, error) {
	ctx, span := tracer.Start(ctx, "ClickHouseStore.FindByDedupeKey")
	defer span.End()

	query := `
		SELECT ` + postingColumns + `
		FROM postings FINAL
		WHERE dedupe_key = ?
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query, key)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Unavailable("query posting by dedup key", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, errors.NotFound("no posting for dedup key "+key, nil)
	}

	posting, err := scanPosting(rows)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Internal("scan posting row", err)
	}
	return posting, nil
}

func (s *ClickHouseStore) TouchLastSeen(ctx context.Context, key string, seen time.Time) error {
	ctx, span := tracer.Start(ctx, "ClickHouseStore.TouchLastSeen")
	defer span.End()

	posting, err := s.FindByDedupeKey(ctx, key)
	if err != nil {
		return err
	}
	if !seen.After(posting.LastSeen) {
		return nil
	}

	posting.LastSeen = seen
	return s.Insert(ctx, posting)
}

func (s *ClickHouseStore) List(ctx context.Context, since time.Time) ([]models.JobPosting, error) {
	ctx, span := tracer.Start(ctx, "ClickHouseStore.List")
	defer span.End()

	query := `
		SELECT ` + postingColumns + `
		FROM postings FINAL
	`
	var args []interface{}
	if !since.IsZero() {
		query += " WHERE effective_date >= ?"
		args = append(args, since)
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Unavailable("list postings", err)
	}
	defer rows.Close()

	var postings []models.JobPosting
	for rows.Next() {
		posting, err := scanPosting(rows)
		if err != nil {
			span.RecordError(err)
			return nil, errors.Internal("scan posting row", err)
		}
		postings = append(postings, *posting)
	}

	span.SetAttributes(telemetry.Int("postings.count", len(postings)))
	return postings, nil
}

func (s *ClickHouseStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	ctx, span := tracer.Start(ctx, "ClickHouseStore.DeleteOlderThan")
	defer span.End()

	var count uint64
	row := s.conn.QueryRow(ctx, "SELECT count() FROM postings FINAL WHERE effective_date < ?", cutoff)
	if err := row.Scan(&count); err != nil {
		span.RecordError(err)
		return 0, errors.Unavailable("count old postings", err)
	}

	if err := s.conn.Exec(ctx, "ALTER TABLE postings DELETE WHERE effective_date < ?", cutoff); err != nil {
		span.RecordError(err)
		return 0, errors.Unavailable("delete old postings", err)
	}

	return int(count), nil
}

func (s *ClickHouseStore) ReplaceDailyCounts(ctx context.Context, counts []models.SkillDailyCount) error {
	ctx, span := tracer.Start(ctx, "ClickHouseStore.ReplaceDailyCounts")
	span.SetAttributes(telemetry.Int("counts.rows", len(counts)))
	defer span.End()

	if err := s.conn.Exec(ctx, "TRUNCATE TABLE skill_daily_counts"); err != nil {
		span.RecordError(err)
		return errors.Unavailable("truncate daily counts", err)
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO skill_daily_counts (skill, date, job_count)")
	if err != nil {
		span.RecordError(err)
		return errors.Unavailable("prepare daily counts batch", err)
	}

	for _, count := range counts {
		if err := batch.Append(count.Skill, count.Date, count.JobCount); err != nil {
			span.RecordError(err)
			return errors.Internal("append daily count row", err)
		}
	}

	if err := batch.Send(); err != nil {
		span.RecordError(err)
		return errors.Unavailable("send daily counts batch", err)
	}

	return nil
}

func (s *ClickHouseStore) Stats(ctx context.Context) (models.StoreStats, error) {
	ctx, span := tracer.Start(ctx, "ClickHouseStore.Stats")
	defer span.End()

	var stats models.StoreStats

	var total uint64
	if err := s.conn.QueryRow(ctx, "SELECT count() FROM postings FINAL").Scan(&total); err != nil {
		span.RecordError(err)
		return stats, errors.Unavailable("count postings", err)
	}

	var uniqueSkills uint64
	if err := s.conn.QueryRow(ctx, `
		SELECT uniqExact(skill)
		FROM (SELECT arrayJoin(skills_extracted) AS skill FROM postings FINAL)
	`).Scan(&uniqueSkills); err != nil {
		span.RecordError(err)
		return stats, errors.Unavailable("count unique skills", err)
	}

	var recent uint64
	if err := s.conn.QueryRow(ctx,
		"SELECT count() FROM postings FINAL WHERE effective_date >= today() - 6",
	).Scan(&recent); err != nil {
		span.RecordError(err)
		return stats, errors.Unavailable("count recent postings", err)
	}

	stats.TotalPostings = int(total)
	stats.UniqueSkills = int(uniqueSkills)
	stats.RecentJobs7d = int(recent)
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPosting(rows rowScanner) (*models.JobPosting, error) {
	var (
		posting    models.JobPosting
		id         string
		dateSource string
	)
	if err := rows.Scan(
		&id,
		&posting.Title,
		&posting.Company,
		&posting.Location,
		&posting.NormTitle,
		&posting.NormCompany,
		&posting.NormLocation,
		&posting.PostedDate,
		&posting.ScrapeDate,
		&posting.EffectiveDate,
		&dateSource,
		&posting.Description,
		&posting.SourceURL,
		&posting.SalaryMin,
		&posting.SalaryMax,
		&posting.Skills,
		&posting.DedupeKey,
		&posting.FirstSeen,
		&posting.LastSeen,
	); err != nil {
		return nil, err
	}

	posting.ID = id
	posting.DateSource = models.DateSource(dateSource)
	return &posting, nil
}
