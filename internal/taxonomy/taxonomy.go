// Package taxonomy holds the curated skill reference data used as the
// allow-list for extraction. It is loaded once at process start and never
// mutated at runtime.
package taxonomy

import (
	"sort"
	"strings"

	"skillpulse/internal/errors"
)

type Category string

const (
	CategoryProgramming Category = "programming"
	CategoryFrontend    Category = "frontend"
	CategoryBackend     Category = "backend"
	CategoryDatabase    Category = "database"
	CategoryCloud       Category = "cloud"
	CategoryDevOps      Category = "devops"
	CategoryAnalytics   Category = "analytics"
	CategoryMobile      Category = "mobile"
	CategoryOther       Category = "other"
)

type SkillDefinition struct {
	CanonicalName string
	Aliases       []string
	Category      Category
}

type Taxonomy struct {
	defs map[string]SkillDefinition
	// alias (case-folded) -> canonical name; includes the canonical name itself
	byAlias map[string]string
}

// minAliasLength guards against ambiguous short tokens. Single-letter skills
// and two-letter common words are excluded from the taxonomy rather than
// threshold-filtered at extraction time.
const minAliasLength = 2

// New builds a taxonomy from skill definitions. Duplicate canonical names and
// aliases shorter than the minimum length are rejected.
func New(defs []SkillDefinition) (*Taxonomy, error) {
	t := &Taxonomy{
		defs:    make(map[string]SkillDefinition, len(defs)),
		byAlias: make(map[string]string),
	}

	for _, def := range defs {
		name := fold(def.CanonicalName)
		if len(name) < minAliasLength {
			return nil, errors.InvalidRecord("canonical skill name too short: "+def.CanonicalName, nil)
		}
		if _, exists := t.defs[name]; exists {
			return nil, errors.InvalidRecord("duplicate canonical skill name: "+name, nil)
		}

		def.CanonicalName = name
		t.defs[name] = def
		t.byAlias[name] = name

		for _, alias := range def.Aliases {
			alias = fold(alias)
			if len(alias) < minAliasLength {
				return nil, errors.InvalidRecord("skill alias too short: "+alias, nil)
			}
			if existing, ok := t.byAlias[alias]; ok && existing != name {
				return nil, errors.InvalidRecord("alias already mapped: "+alias, nil)
			}
			t.byAlias[alias] = name
		}
	}

	return t, nil
}

// Canonical resolves an alias (or canonical name) to its canonical skill name.
func (t *Taxonomy) Canonical(alias string) (string, bool) {
	name, ok := t.byAlias[fold(alias)]
	return name, ok
}

// Lookup returns the definition for a canonical skill name.
func (t *Taxonomy) Lookup(canonical string) (SkillDefinition, bool) {
	def, ok := t.defs[fold(canonical)]
	return def, ok
}

// Contains reports whether the name is a canonical skill in the taxonomy.
func (t *Taxonomy) Contains(canonical string) bool {
	_, ok := t.defs[fold(canonical)]
	return ok
}

// Category returns the category of a canonical skill, CategoryOther if the
// skill is unknown.
func (t *Taxonomy) Category(canonical string) Category {
	if def, ok := t.defs[fold(canonical)]; ok {
		return def.Category
	}
	return CategoryOther
}

// Definitions returns all skill definitions sorted by canonical name.
func (t *Taxonomy) Definitions() []SkillDefinition {
	defs := make([]SkillDefinition, 0, len(t.defs))
	for _, def := range t.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].CanonicalName < defs[j].CanonicalName
	})
	return defs
}

// Aliases returns every alias -> canonical pairing, including identity
// mappings for canonical names. The extractor builds its phrase index from
// this.
func (t *Taxonomy) Aliases() map[string]string {
	out := make(map[string]string, len(t.byAlias))
	for alias, canonical := range t.byAlias {
		out[alias] = canonical
	}
	return out
}

func (t *Taxonomy) Len() int {
	return len(t.defs)
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
