// Package normalizer turns raw posting records into canonical JobPosting
// drafts with a stable dedup key.
package normalizer

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skillpulse/internal/errors"
	"skillpulse/internal/extractor"
	"skillpulse/internal/models"
)

// Namespace for deterministic posting IDs derived from dedup keys.
var idNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

var (
	multiNewline = regexp.MustCompile(`\n\s*\n`)
	multiSpace   = regexp.MustCompile(`\s+`)
	unicodeDash  = regexp.MustCompile(`[\x{2013}\x{2014}\x{2015}]`)
	salaryRange  = regexp.MustCompile(`\$(\d+(?:,\d{3})*(?:\.\d{2})?)([Kk]?)\s*-\s*\$(\d+(?:,\d{3})*(?:\.\d{2})?)([Kk]?)`)
)

type Normalizer struct {
	extractor *extractor.Extractor
	logger    *zap.Logger
}

func New(ex *extractor.Extractor, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		extractor: ex,
		logger:    logger,
	}
}

// Normalize cleans a raw record into a JobPosting draft with skills attached.
// A record missing both title and company is rejected as an invalid record;
// the error is per-record and never fatal to a batch.
func (n *Normalizer) Normalize(raw models.RawPosting) (*models.JobPosting, error) {
	title := strings.TrimSpace(raw.Title)
	company := strings.TrimSpace(raw.Company)
	if title == "" && company == "" {
		return nil, errors.InvalidRecord("posting has neither title nor company", nil)
	}

	location := strings.TrimSpace(raw.Location)

	normTitle := strings.ToLower(title)
	normCompany := strings.ToLower(company)
	normLocation := strings.ToLower(location)
	if normLocation == "" {
		normLocation = "unknown"
	}

	scrapeDate := raw.ScrapeDate
	if scrapeDate.IsZero() {
		scrapeDate = time.Now().UTC()
	}
	effectiveDate, dateSource := models.EffectiveDay(raw.PostedDate, scrapeDate)

	description := NormalizeText(raw.Description)

	salaryMin, salaryMax := raw.SalaryMin, raw.SalaryMax
	if salaryMin == nil && salaryMax == nil {
		salaryMin, salaryMax = parseSalaryRange(description)
	}

	dedupeKey := DedupeKey(normTitle, normCompany, normLocation, raw.SourceURL)

	skills := n.extractor.Skills(title + " " + description)

	return &models.JobPosting{
		ID:            uuid.NewSHA1(idNamespace, []byte(dedupeKey)).String(),
		Title:         title,
		Company:       company,
		Location:      location,
		NormTitle:     normTitle,
		NormCompany:   normCompany,
		NormLocation:  normLocation,
		PostedDate:    raw.PostedDate,
		ScrapeDate:    scrapeDate,
		EffectiveDate: effectiveDate,
		DateSource:    dateSource,
		Description:   description,
		SourceURL:     strings.TrimSpace(raw.SourceURL),
		SalaryMin:     salaryMin,
		SalaryMax:     salaryMax,
		Skills:        skills,
		DedupeKey:     dedupeKey,
		FirstSeen:     scrapeDate,
		LastSeen:      scrapeDate,
	}, nil
}

// DedupeKey computes the stable identifier used to recognize repeat sightings.
// A trusted source URL takes precedence; otherwise the key is a content hash
// over the normalized title, company and location.
func DedupeKey(normTitle, normCompany, normLocation, sourceURL string) string {
	if url := strings.TrimSpace(sourceURL); url != "" {
		return hashKey("url:" + url)
	}
	return hashKey(fmt.Sprintf("%s-%s-%s", normCompany, normTitle, normLocation))
}

func hashKey(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// NormalizeText collapses whitespace runs and folds unicode dashes so the
// extractor and the dedup hash see a stable form.
func NormalizeText(text string) string {
	text = multiNewline.ReplaceAllString(text, "\n")
	text = multiSpace.ReplaceAllString(text, " ")
	text = unicodeDash.ReplaceAllString(text, "-")
	return strings.TrimSpace(text)
}

// parseSalaryRange pulls a "$90k - $120k" style range out of free text.
// Returns nils when no range is present.
func parseSalaryRange(text string) (*float64, *float64) {
	matches := salaryRange.FindStringSubmatch(text)
	if len(matches) < 5 {
		return nil, nil
	}

	min := parseAmount(matches[1], matches[2])
	max := parseAmount(matches[3], matches[4])
	if min == 0 && max == 0 {
		return nil, nil
	}
	return &min, &max
}

func parseAmount(digits, suffix string) float64 {
	digits = strings.ReplaceAll(digits, ",", "")
	amount, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	if suffix == "k" || suffix == "K" {
		amount *= 1000
	}
	return amount
}
