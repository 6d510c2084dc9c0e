package models

import (
	"encoding/json"
	"time"
)

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// SkillDailyCount is one row of the materialized daily time series: the number
// of distinct postings referencing the skill whose effective date equals Date.
type SkillDailyCount struct {
	Skill    string    `json:"skill"`
	Date     time.Time `json:"date"`
	JobCount uint64    `json:"job_count"`
}

// GrowthDetail carries the two window-over-window growth comparisons. A nil
// entry means the prior window was empty and the growth is undefined.
type GrowthDetail struct {
	SevenVsPrior23 *float64 `json:"7d_vs_23d"`
	ThirtyVsPrior  *float64 `json:"30d_vs_30d"`
}

type SkillTrend struct {
	SkillName         string         `json:"skill_name"`
	Category          string         `json:"category"`
	JobCount7d        int            `json:"job_count_7d"`
	JobCount30d       int            `json:"job_count_30d"`
	JobCount60d       int            `json:"job_count_60d"`
	GrowthRate        *float64       `json:"growth_rate"`
	GrowthRatesDetail GrowthDetail   `json:"growth_rates_detail"`
	TrendDirection    TrendDirection `json:"trend_direction"`
	CompaniesHiring   []string       `json:"companies_hiring"`
	TopLocations      []string       `json:"top_locations"`
	AvgSalaryMin      *float64       `json:"avg_salary_min"`
	AvgSalaryMax      *float64       `json:"avg_salary_max"`
}

func (t SkillTrend) MarshalBinary() ([]byte, error) {
	return json.Marshal(t)
}

func (t *SkillTrend) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, t)
}

type SkillTrendList struct {
	Skills     []SkillTrend `json:"skills"`
	TotalCount int          `json:"total_count"`
}

func (l SkillTrendList) MarshalBinary() ([]byte, error) {
	return json.Marshal(l)
}

func (l *SkillTrendList) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, l)
}

type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SkillAnalytics is the per-skill timeline: one point per calendar day in the
// requested window, zero-filled for days with no postings.
type SkillAnalytics struct {
	Skill      string          `json:"skill"`
	PeriodDays int             `json:"period_days"`
	TotalJobs  int             `json:"total_jobs"`
	Timeline   []TimelinePoint `json:"timeline"`
}

func (a SkillAnalytics) MarshalBinary() ([]byte, error) {
	return json.Marshal(a)
}

func (a *SkillAnalytics) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, a)
}

type SkillCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type CompanyCount struct {
	Company  string `json:"company"`
	JobCount int    `json:"job_count"`
}

type LocationCount struct {
	Location string `json:"location"`
	JobCount int    `json:"job_count"`
}

type MarketSummary struct {
	TotalJobs         int             `json:"total_jobs"`
	TotalUniqueSkills int             `json:"total_unique_skills"`
	TotalCompanies    int             `json:"total_companies"`
	TotalLocations    int             `json:"total_locations"`
	TopSkills         []SkillCount    `json:"top_skills"`
	TopCompanies      []CompanyCount  `json:"top_companies"`
	TopLocations      []LocationCount `json:"top_locations"`
	SkillCategories   map[string]int  `json:"skill_categories"`
	WindowDays        int             `json:"window_days"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

func (s MarketSummary) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *MarketSummary) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}

// CategoryBreakdown is one row of the per-category skill distribution.
type CategoryBreakdown struct {
	Category         string `json:"category"`
	JobCount         int    `json:"job_count"`
	UniqueSkillCount int    `json:"unique_skills_count"`
}

type CategoryBreakdownList struct {
	Categories []CategoryBreakdown `json:"categories"`
}

func (l CategoryBreakdownList) MarshalBinary() ([]byte, error) {
	return json.Marshal(l)
}

func (l *CategoryBreakdownList) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, l)
}

type StoreStats struct {
	TotalPostings int `json:"total_postings"`
	UniqueSkills  int `json:"unique_skills"`
	RecentJobs7d  int `json:"recent_jobs_7d"`
}
