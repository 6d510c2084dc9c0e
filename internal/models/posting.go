package models

import (
	"encoding/json"
	"time"
)

// DateSource records which raw field produced a posting's effective date, so
// downstream windowing treats substituted dates consistently.
type DateSource string

const (
	DateSourcePosted  DateSource = "posted"
	DateSourceScraped DateSource = "scraped"
)

// RawPosting is a posting record as delivered by the external ingestion
// source, before normalization. Location, salary and posted date may be
// missing.
type RawPosting struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	SourceURL   string     `json:"source_url"`
	PostedDate  *time.Time `json:"posted_date"`
	ScrapeDate  time.Time  `json:"scrape_date"`
	SalaryMin   *float64   `json:"salary_min"`
	SalaryMax   *float64   `json:"salary_max"`
}

type JobPosting struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`

	// Comparison forms: trimmed and case-folded, display casing preserved above.
	NormTitle    string `json:"norm_title"`
	NormCompany  string `json:"norm_company"`
	NormLocation string `json:"norm_location"`

	PostedDate    *time.Time `json:"posted_date"`
	ScrapeDate    time.Time  `json:"scrape_date"`
	EffectiveDate time.Time  `json:"effective_date"`
	DateSource    DateSource `json:"date_source"`

	Description string   `json:"description"`
	SourceURL   string   `json:"source_url"`
	SalaryMin   *float64 `json:"salary_min"`
	SalaryMax   *float64 `json:"salary_max"`

	Skills    []string  `json:"skills_extracted"`
	DedupeKey string    `json:"dedupe_key"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

func (p JobPosting) MarshalBinary() ([]byte, error) {
	return json.Marshal(p)
}

func (p *JobPosting) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, p)
}

// HasSkill reports whether the posting references the given canonical skill.
func (p *JobPosting) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if s == skill {
			return true
		}
	}
	return false
}
