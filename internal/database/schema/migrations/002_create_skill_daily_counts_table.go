package migrations

import "skillpulse/internal/database/schema"

var CreateSkillDailyCountsTable = schema.Migration{
	Version:     2,
	Description: "Create skill daily counts table",
	Up: `
		CREATE TABLE IF NOT EXISTS skill_daily_counts (
			skill String,
			date Date,
			job_count UInt64,
			PRIMARY KEY (skill, date)
		) ENGINE = MergeTree()
		ORDER BY (skill, date)
		SETTINGS index_granularity = 8192
	`,
	Down: `DROP TABLE IF EXISTS skill_daily_counts`,
}

// All lists every migration in apply order.
var All = []schema.Migration{
	CreatePostingsTable,
	CreateSkillDailyCountsTable,
}
