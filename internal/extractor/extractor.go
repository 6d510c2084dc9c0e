// Package extractor scans normalized posting text against the skill taxonomy
// and returns the matched canonical skills with a per-match confidence.
package extractor

import (
	"regexp"
	"sort"
	"strings"

	"skillpulse/internal/taxonomy"

	"go.uber.org/zap"
)

type Match struct {
	Skill      string
	Category   taxonomy.Category
	Confidence float64
}

type phrase struct {
	tokens    []string
	canonical string
}

type Extractor struct {
	tax       *taxonomy.Taxonomy
	threshold float64
	logger    *zap.Logger

	// first token -> candidate phrases, longest first so multi-word aliases
	// win over their fragments
	index map[string][]phrase
}

func New(tax *taxonomy.Taxonomy, threshold float64, logger *zap.Logger) *Extractor {
	e := &Extractor{
		tax:       tax,
		threshold: threshold,
		logger:    logger,
		index:     make(map[string][]phrase),
	}

	for alias, canonical := range tax.Aliases() {
		tokens := tokenizeAlias(alias)
		if len(tokens) == 0 {
			continue
		}
		first := tokens[0]
		e.index[first] = append(e.index[first], phrase{tokens: tokens, canonical: canonical})
	}

	for first := range e.index {
		candidates := e.index[first]
		sort.SliceStable(candidates, func(i, j int) bool {
			return len(candidates[i].tokens) > len(candidates[j].tokens)
		})
		e.index[first] = candidates
	}

	return e
}

// Extract returns the canonical skills matched in the text, deduplicated with
// the highest confidence kept, sorted by skill name. An empty result is valid.
func (e *Extractor) Extract(text string) []Match {
	folded := strings.ToLower(text)
	tokens := tokenize(folded)

	best := make(map[string]float64)

	i := 0
	for i < len(tokens) {
		candidates, ok := e.index[tokens[i].text]
		if !ok {
			i++
			continue
		}

		matched := false
		for _, cand := range candidates {
			if !phraseMatches(tokens, i, cand.tokens) {
				continue
			}

			spanStart := tokens[i].start
			spanEnd := tokens[i+len(cand.tokens)-1].end
			confidence := scoreConfidence(folded, spanStart, spanEnd)

			if confidence >= e.threshold {
				if prev, seen := best[cand.canonical]; !seen || confidence > prev {
					best[cand.canonical] = confidence
				}
			}

			// Consume the span so fragments of a multi-word match are not
			// re-matched on their own.
			i += len(cand.tokens)
			matched = true
			break
		}
		if !matched {
			i++
		}
	}

	matches := make([]Match, 0, len(best))
	for canonical, confidence := range best {
		matches = append(matches, Match{
			Skill:      canonical,
			Category:   e.tax.Category(canonical),
			Confidence: confidence,
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Skill < matches[j].Skill
	})
	return matches
}

// Skills returns just the matched canonical skill names, sorted.
func (e *Extractor) Skills(text string) []string {
	matches := e.Extract(text)
	skills := make([]string, len(matches))
	for i, m := range matches {
		skills[i] = m.Skill
	}
	return skills
}

func phraseMatches(tokens []token, start int, want []string) bool {
	if start+len(want) > len(tokens) {
		return false
	}
	for k, w := range want {
		if tokens[start+k].text != w {
			return false
		}
	}
	return true
}

// Nearby experience or requirement language raises confidence; URL/email
// surroundings lower it so tech names inside links do not count as demanded
// skills.
var (
	experienceCtx  = regexp.MustCompile(`\d+\+?\s*(?:years?|yrs?)`)
	proficiencyCtx = regexp.MustCompile(`(?:expert|proficient|skilled|experienced|knowledge)`)
	requirementCtx = regexp.MustCompile(`(?:required|must\s*have|should\s*have|need)`)
)

const (
	baseConfidence    = 0.75
	contextBoost      = 0.1
	linkPenalty       = 0.4
	contextWindowSize = 50
)

func scoreConfidence(folded string, start, end int) float64 {
	lo := start - contextWindowSize
	if lo < 0 {
		lo = 0
	}
	hi := end + contextWindowSize
	if hi > len(folded) {
		hi = len(folded)
	}
	context := folded[lo:hi]

	confidence := baseConfidence
	if experienceCtx.MatchString(context) {
		confidence += contextBoost
	}
	if proficiencyCtx.MatchString(context) {
		confidence += contextBoost
	}
	if requirementCtx.MatchString(context) {
		confidence += contextBoost
	}
	if strings.Contains(context, "@") || strings.Contains(context, "http") ||
		strings.Contains(context, ".com") || strings.Contains(context, "www.") {
		confidence -= linkPenalty
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0.0 {
		confidence = 0.0
	}
	return confidence
}

type token struct {
	text  string
	start int
	end   int
}

func isTokenByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '+' || b == '#' || b == '.' || b == '-':
		return true
	}
	return false
}

// tokenize splits folded text into word tokens with byte offsets. '+' and '#'
// stay attached ("c++", "c#"); '.' and '-' are token characters but trimmed at
// token edges so "node.js" survives while a sentence-final "python." does not
// keep its dot.
func tokenize(folded string) []token {
	var tokens []token
	i := 0
	for i < len(folded) {
		if !isTokenByte(folded[i]) {
			i++
			continue
		}
		start := i
		for i < len(folded) && isTokenByte(folded[i]) {
			i++
		}
		text := folded[start:i]

		trimStart, trimEnd := 0, len(text)
		for trimStart < trimEnd && (text[trimStart] == '.' || text[trimStart] == '-') {
			trimStart++
		}
		for trimEnd > trimStart && (text[trimEnd-1] == '.' || text[trimEnd-1] == '-') {
			trimEnd--
		}
		if trimStart == trimEnd {
			continue
		}

		tokens = append(tokens, token{
			text:  text[trimStart:trimEnd],
			start: start + trimStart,
			end:   start + trimEnd,
		})
	}
	return tokens
}

func tokenizeAlias(alias string) []string {
	raw := tokenize(strings.ToLower(alias))
	out := make([]string, len(raw))
	for i, t := range raw {
		out[i] = t.text
	}
	return out
}
