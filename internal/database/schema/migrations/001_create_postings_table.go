package migrations

import "skillpulse/internal/database/schema"

var CreatePostingsTable = schema.Migration{
	Version:     1,
	Description: "Create postings table",
	Up: `
		CREATE TABLE IF NOT EXISTS postings (
			id UUID,
			title String,
			company String,
			location String,
			norm_title String,
			norm_company String,
			norm_location String,
			posted_date Nullable(DateTime),
			scrape_date DateTime,
			effective_date Date,
			date_source String,
			description String,
			source_url String,
			salary_min Nullable(Float64),
			salary_max Nullable(Float64),
			skills_extracted Array(String),
			dedupe_key String,
			first_seen DateTime,
			last_seen DateTime,
			PRIMARY KEY (dedupe_key)
		) ENGINE = ReplacingMergeTree(last_seen)
		PARTITION BY toYYYYMM(effective_date)
		ORDER BY (dedupe_key, effective_date)
		SETTINGS index_granularity = 8192
	`,
	Down: `DROP TABLE IF EXISTS postings`,
}
