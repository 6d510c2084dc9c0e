// Package market builds windowed market-wide summaries over the posting set:
// totals, top rankings and per-category distributions.
package market

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"skillpulse/internal/aggregator"
	"skillpulse/internal/models"
	"skillpulse/internal/taxonomy"
)

const (
	topSkillsLimit    = 20
	topCompaniesLimit = 15
	topLocationsLimit = 10
)

type Builder struct {
	tax    *taxonomy.Taxonomy
	logger *zap.Logger
}

func NewBuilder(tax *taxonomy.Taxonomy, logger *zap.Logger) *Builder {
	return &Builder{
		tax:    tax,
		logger: logger,
	}
}

// Build summarizes the trailing `days` calendar days ending at asOf. An empty
// window yields zeroed totals and empty rankings, never an error.
func (b *Builder) Build(snap *aggregator.Snapshot, days int, asOf time.Time) *models.MarketSummary {
	asOf = models.DayUTC(asOf)
	postings := snap.PostingsInWindow(asOf.AddDate(0, 0, -(days-1)), asOf)

	skillCounts := make(map[string]int)
	companyCounts := make(map[string]int)
	locationCounts := make(map[string]int)
	categoryCounts := make(map[string]int)

	for i := range postings {
		p := &postings[i]
		if p.Company != "" {
			companyCounts[p.Company]++
		}
		if p.Location != "" {
			locationCounts[p.Location]++
		}

		// A posting contributes once to every category it touches, so a
		// posting with skills in several categories is counted in each.
		seenCategories := make(map[string]bool)
		for _, skill := range p.Skills {
			if !b.tax.Contains(skill) {
				continue
			}
			skillCounts[skill]++
			cat := string(b.tax.Category(skill))
			if !seenCategories[cat] {
				seenCategories[cat] = true
				categoryCounts[cat]++
			}
		}
	}

	// Rankings marshal as [] on an empty window, never null; external
	// consumers key on the field shapes.
	summary := &models.MarketSummary{
		TotalJobs:         len(postings),
		TotalUniqueSkills: len(skillCounts),
		TotalCompanies:    len(companyCounts),
		TotalLocations:    len(locationCounts),
		TopSkills:         make([]models.SkillCount, 0, len(skillCounts)),
		TopCompanies:      make([]models.CompanyCount, 0, len(companyCounts)),
		TopLocations:      make([]models.LocationCount, 0, len(locationCounts)),
		SkillCategories:   categoryCounts,
		WindowDays:        days,
		GeneratedAt:       time.Now().UTC(),
	}

	for _, name := range rankedNames(skillCounts, topSkillsLimit) {
		summary.TopSkills = append(summary.TopSkills, models.SkillCount{
			Name:  name,
			Count: skillCounts[name],
		})
	}
	for _, name := range rankedNames(companyCounts, topCompaniesLimit) {
		summary.TopCompanies = append(summary.TopCompanies, models.CompanyCount{
			Company:  name,
			JobCount: companyCounts[name],
		})
	}
	for _, name := range rankedNames(locationCounts, topLocationsLimit) {
		summary.TopLocations = append(summary.TopLocations, models.LocationCount{
			Location: name,
			JobCount: locationCounts[name],
		})
	}

	return summary
}

// Categories breaks the window down per category: posting count (a posting
// counts once per category it touches) and distinct skill count, ordered by
// posting count descending.
func (b *Builder) Categories(snap *aggregator.Snapshot, days int, asOf time.Time) []models.CategoryBreakdown {
	asOf = models.DayUTC(asOf)
	postings := snap.PostingsInWindow(asOf.AddDate(0, 0, -(days-1)), asOf)

	postingCounts := make(map[string]int)
	uniqueSkills := make(map[string]map[string]bool)

	for i := range postings {
		seen := make(map[string]bool)
		for _, skill := range postings[i].Skills {
			if !b.tax.Contains(skill) {
				continue
			}
			cat := string(b.tax.Category(skill))
			if uniqueSkills[cat] == nil {
				uniqueSkills[cat] = make(map[string]bool)
			}
			uniqueSkills[cat][skill] = true
			if !seen[cat] {
				seen[cat] = true
				postingCounts[cat]++
			}
		}
	}

	out := make([]models.CategoryBreakdown, 0, len(postingCounts))
	for cat, count := range postingCounts {
		out = append(out, models.CategoryBreakdown{
			Category:         cat,
			JobCount:         count,
			UniqueSkillCount: len(uniqueSkills[cat]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JobCount != out[j].JobCount {
			return out[i].JobCount > out[j].JobCount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// rankedNames orders map keys by count descending, name ascending on ties.
func rankedNames(counts map[string]int, limit int) []string {
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
