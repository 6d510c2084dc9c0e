package models

import "time"

// DayUTC truncates a timestamp to its UTC calendar day. All daily buckets and
// window arithmetic use this form so a posting lands in exactly one bucket.
func DayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EffectiveDay resolves a posting's bucket day: the posted date when present,
// otherwise the scrape date.
func EffectiveDay(posted *time.Time, scraped time.Time) (time.Time, DateSource) {
	if posted != nil && !posted.IsZero() {
		return DayUTC(*posted), DateSourcePosted
	}
	return DayUTC(scraped), DateSourceScraped
}
