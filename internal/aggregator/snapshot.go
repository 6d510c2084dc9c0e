package aggregator

import (
	"sort"
	"time"

	"skillpulse/internal/models"
	"skillpulse/internal/taxonomy"
)

// Snapshot is one immutable materialized view: the per-skill per-day counts
// plus the posting set they were derived from. Query paths read a snapshot
// without locking; the aggregator swaps in a fresh one atomically.
type Snapshot struct {
	postings    []models.JobPosting
	daily       map[string]map[time.Time]int
	generatedAt time.Time
}

// NewSnapshot builds a snapshot from stored postings. Skills not present in
// the taxonomy never enter the daily series, keeping the extraction invariant
// even if stale rows survive a taxonomy change.
func NewSnapshot(postings []models.JobPosting, tax *taxonomy.Taxonomy, generatedAt time.Time) *Snapshot {
	daily := make(map[string]map[time.Time]int)
	for _, posting := range postings {
		day := models.DayUTC(posting.EffectiveDate)
		for _, skill := range posting.Skills {
			if !tax.Contains(skill) {
				continue
			}
			if daily[skill] == nil {
				daily[skill] = make(map[time.Time]int)
			}
			daily[skill][day]++
		}
	}

	sorted := make([]models.JobPosting, len(postings))
	copy(sorted, postings)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].EffectiveDate.Equal(sorted[j].EffectiveDate) {
			return sorted[i].EffectiveDate.Before(sorted[j].EffectiveDate)
		}
		return sorted[i].DedupeKey < sorted[j].DedupeKey
	})

	return &Snapshot{
		postings:    sorted,
		daily:       daily,
		generatedAt: generatedAt,
	}
}

// EmptySnapshot is what readers see before the first recompute completes.
func EmptySnapshot() *Snapshot {
	return &Snapshot{daily: make(map[string]map[time.Time]int)}
}

func (s *Snapshot) GeneratedAt() time.Time {
	return s.generatedAt
}

// DailyCount returns the job count for a skill on a single UTC day.
func (s *Snapshot) DailyCount(skill string, day time.Time) int {
	return s.daily[skill][models.DayUTC(day)]
}

// WindowCount sums daily counts for a skill over [from, to], inclusive.
func (s *Snapshot) WindowCount(skill string, from, to time.Time) int {
	days, ok := s.daily[skill]
	if !ok {
		return 0
	}
	from, to = models.DayUTC(from), models.DayUTC(to)

	total := 0
	for day, count := range days {
		if !day.Before(from) && !day.After(to) {
			total += count
		}
	}
	return total
}

// HasSkill reports whether the skill was observed in any posting.
func (s *Snapshot) HasSkill(skill string) bool {
	_, ok := s.daily[skill]
	return ok
}

// Skills returns every observed skill, sorted.
func (s *Snapshot) Skills() []string {
	skills := make([]string, 0, len(s.daily))
	for skill := range s.daily {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	return skills
}

// Postings returns the full posting set ordered by effective date.
func (s *Snapshot) Postings() []models.JobPosting {
	return s.postings
}

// PostingsInWindow returns postings whose effective date falls in [from, to].
func (s *Snapshot) PostingsInWindow(from, to time.Time) []models.JobPosting {
	from, to = models.DayUTC(from), models.DayUTC(to)

	var out []models.JobPosting
	for i := range s.postings {
		day := s.postings[i].EffectiveDate
		if !day.Before(from) && !day.After(to) {
			out = append(out, s.postings[i])
		}
	}
	return out
}

// PostingsWithSkill returns postings in [from, to] referencing the skill.
func (s *Snapshot) PostingsWithSkill(skill string, from, to time.Time) []models.JobPosting {
	var out []models.JobPosting
	for _, posting := range s.PostingsInWindow(from, to) {
		if posting.HasSkill(skill) {
			out = append(out, posting)
		}
	}
	return out
}

// DailyRows flattens the series into store rows, ordered by skill then date
// so repeated recomputes over identical postings yield identical output.
func (s *Snapshot) DailyRows() []models.SkillDailyCount {
	var rows []models.SkillDailyCount
	for skill, days := range s.daily {
		for day, count := range days {
			rows = append(rows, models.SkillDailyCount{
				Skill:    skill,
				Date:     day,
				JobCount: uint64(count),
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Skill != rows[j].Skill {
			return rows[i].Skill < rows[j].Skill
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}
