// Package trends derives rolling-window counts, growth rates and trend
// directions per skill from the materialized daily series.
package trends

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"skillpulse/internal/aggregator"
	"skillpulse/internal/errors"
	"skillpulse/internal/models"
	"skillpulse/internal/taxonomy"
)

const (
	// trendThresholdPct classifies growth into up/down/stable.
	trendThresholdPct = 5.0

	companiesLimit = 15
	locationsLimit = 10

	rankingWindowDays = 30
)

type Calculator struct {
	tax    *taxonomy.Taxonomy
	logger *zap.Logger
}

func NewCalculator(tax *taxonomy.Taxonomy, logger *zap.Logger) *Calculator {
	return &Calculator{
		tax:    tax,
		logger: logger,
	}
}

// SkillTrend computes the trend record for one skill as of a date. A skill
// absent from the taxonomy, or never observed in any posting, is a not-found
// result; it never aborts sibling queries.
func (c *Calculator) SkillTrend(snap *aggregator.Snapshot, skill string, asOf time.Time) (*models.SkillTrend, error) {
	canonical, ok := c.tax.Canonical(skill)
	if !ok {
		return nil, errors.NotFound("unknown skill: "+skill, nil)
	}
	if !snap.HasSkill(canonical) {
		return nil, errors.NotFound("no data for skill: "+canonical, nil)
	}

	asOf = models.DayUTC(asOf)

	count7 := snap.WindowCount(canonical, asOf.AddDate(0, 0, -6), asOf)
	count30 := snap.WindowCount(canonical, asOf.AddDate(0, 0, -29), asOf)
	count60 := snap.WindowCount(canonical, asOf.AddDate(0, 0, -59), asOf)

	// Recent 7-day average daily rate against the preceding 23 days
	// (days 8-30 before asOf).
	prior23 := snap.WindowCount(canonical, asOf.AddDate(0, 0, -29), asOf.AddDate(0, 0, -7))
	sevenVsPrior := rateDelta(float64(count7)/7, float64(prior23)/23)

	// Current 30 days against the preceding 30 days.
	prior30 := snap.WindowCount(canonical, asOf.AddDate(0, 0, -59), asOf.AddDate(0, 0, -30))
	thirtyVsPrior := rateDelta(float64(count30)/30, float64(prior30)/30)

	growthRate := thirtyVsPrior
	if growthRate == nil {
		growthRate = sevenVsPrior
	}

	windowPostings := snap.PostingsWithSkill(canonical,
		asOf.AddDate(0, 0, -(rankingWindowDays-1)), asOf)

	avgMin, avgMax := averageSalary(windowPostings)

	return &models.SkillTrend{
		SkillName:   canonical,
		Category:    string(c.tax.Category(canonical)),
		JobCount7d:  count7,
		JobCount30d: count30,
		JobCount60d: count60,
		GrowthRate:  growthRate,
		GrowthRatesDetail: models.GrowthDetail{
			SevenVsPrior23: sevenVsPrior,
			ThirtyVsPrior:  thirtyVsPrior,
		},
		TrendDirection:  direction(growthRate),
		CompaniesHiring: rankNames(windowPostings, func(p *models.JobPosting) string { return p.Company }, companiesLimit),
		TopLocations:    rankNames(windowPostings, func(p *models.JobPosting) string { return p.Location }, locationsLimit),
		AvgSalaryMin:    avgMin,
		AvgSalaryMax:    avgMax,
	}, nil
}

// Timeline returns the zero-filled daily series for a skill over the last
// `days` calendar days ending at asOf: one point per day, no gaps.
func (c *Calculator) Timeline(snap *aggregator.Snapshot, skill string, days int, asOf time.Time) (*models.SkillAnalytics, error) {
	canonical, ok := c.tax.Canonical(skill)
	if !ok {
		return nil, errors.NotFound("unknown skill: "+skill, nil)
	}
	if !snap.HasSkill(canonical) {
		return nil, errors.NotFound("no data for skill: "+canonical, nil)
	}

	asOf = models.DayUTC(asOf)
	start := asOf.AddDate(0, 0, -(days - 1))

	timeline := make([]models.TimelinePoint, 0, days)
	total := 0
	for day := start; !day.After(asOf); day = day.AddDate(0, 0, 1) {
		count := snap.DailyCount(canonical, day)
		total += count
		timeline = append(timeline, models.TimelinePoint{
			Date:  day.Format("2006-01-02"),
			Count: count,
		})
	}

	return &models.SkillAnalytics{
		Skill:      canonical,
		PeriodDays: days,
		TotalJobs:  total,
		Timeline:   timeline,
	}, nil
}

// TrendingOptions filters and orders the trending-skills ranking.
type TrendingOptions struct {
	Category taxonomy.Category // empty means all categories
	Limit    int
	SortBy   string // growth_rate, job_count_30d or skill_name
	AsOf     time.Time
}

// TrendingSkills ranks every observed skill by the requested ordering.
func (c *Calculator) TrendingSkills(snap *aggregator.Snapshot, opts TrendingOptions) *models.SkillTrendList {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	skills := make([]models.SkillTrend, 0)
	for _, skill := range snap.Skills() {
		if opts.Category != "" && c.tax.Category(skill) != opts.Category {
			continue
		}
		trend, err := c.SkillTrend(snap, skill, asOf)
		if err != nil {
			c.logger.Warn("skipping skill in trending ranking",
				zap.String("skill", skill),
				zap.Error(err))
			continue
		}
		skills = append(skills, *trend)
	}

	sortTrends(skills, opts.SortBy)

	total := len(skills)
	if len(skills) > limit {
		skills = skills[:limit]
	}

	return &models.SkillTrendList{
		Skills:     skills,
		TotalCount: total,
	}
}

func sortTrends(skills []models.SkillTrend, sortBy string) {
	switch sortBy {
	case "skill_name":
		sort.Slice(skills, func(i, j int) bool {
			return skills[i].SkillName < skills[j].SkillName
		})
	case "growth_rate":
		sort.Slice(skills, func(i, j int) bool {
			gi, gj := skills[i].GrowthRate, skills[j].GrowthRate
			switch {
			case gi == nil && gj == nil:
				// fall through to count ordering
			case gi == nil:
				return false
			case gj == nil:
				return true
			case *gi != *gj:
				return *gi > *gj
			}
			if skills[i].JobCount30d != skills[j].JobCount30d {
				return skills[i].JobCount30d > skills[j].JobCount30d
			}
			return skills[i].SkillName < skills[j].SkillName
		})
	default: // job_count_30d
		sort.Slice(skills, func(i, j int) bool {
			if skills[i].JobCount30d != skills[j].JobCount30d {
				return skills[i].JobCount30d > skills[j].JobCount30d
			}
			return skills[i].SkillName < skills[j].SkillName
		})
	}
}

// rateDelta returns the percentage change between a recent and a prior
// average daily rate, nil when the prior rate is zero (undefined growth).
func rateDelta(recent, prior float64) *float64 {
	if prior == 0 {
		return nil
	}
	delta := round2((recent - prior) / prior * 100)
	return &delta
}

func direction(growthRate *float64) models.TrendDirection {
	if growthRate == nil {
		return models.TrendStable
	}
	switch {
	case *growthRate > trendThresholdPct:
		return models.TrendUp
	case *growthRate < -trendThresholdPct:
		return models.TrendDown
	default:
		return models.TrendStable
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// rankNames groups postings by a field and returns the names ordered by count
// descending, ties broken by name ascending. Empty names are dropped.
func rankNames(postings []models.JobPosting, field func(*models.JobPosting) string, limit int) []string {
	counts := make(map[string]int)
	for i := range postings {
		name := field(&postings[i])
		if name == "" {
			continue
		}
		counts[name]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > limit {
		names = names[:limit]
	}
	return names
}

func averageSalary(postings []models.JobPosting) (*float64, *float64) {
	var sumMin, sumMax float64
	n := 0
	for i := range postings {
		p := &postings[i]
		if p.SalaryMin == nil || p.SalaryMax == nil {
			continue
		}
		sumMin += *p.SalaryMin
		sumMax += *p.SalaryMax
		n++
	}
	if n == 0 {
		return nil, nil
	}
	avgMin := round2(sumMin / float64(n))
	avgMax := round2(sumMax / float64(n))
	return &avgMin, &avgMax
}
