// Package scoring implements the deterministic, local half of the matching
// engine: one scoring rule per criterion category plus the matcher that
// aggregates them into a per-company score.
package scoring

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MartinBouvet/panel-entreprises/internal/company"
	"github.com/MartinBouvet/panel-entreprises/internal/criteria"
	"github.com/MartinBouvet/panel-entreprises/internal/extract"
)

// partialCredit is the documented don't-know score returned when a scorer
// cannot resolve the underlying data either way. It is always tagged with low
// confidence to keep it distinguishable from a computed 50.
const partialCredit = 50

// Scorer evaluates a single company against a single criterion. All lookup
// data is injected at construction and treated as immutable.
type Scorer struct {
	tables *Tables
}

// NewScorer creates a scorer backed by the default lookup tables.
func NewScorer() *Scorer {
	return &Scorer{tables: DefaultTables()}
}

// NewScorerWithTables creates a scorer with custom lookup tables.
func NewScorerWithTables(tables *Tables) *Scorer {
	return &Scorer{tables: tables}
}

// Score dispatches the criterion to its category rule and returns the 0-100
// score with its confidence tag.
func (s *Scorer) Score(c *company.Company, crit *criteria.Criterion) company.CriterionScore {
	switch crit.ResolveCategory() {
	case criteria.CategoryCertification:
		return s.scoreCertification(c, crit)
	case criteria.CategoryExperience:
		return s.scoreExperience(c, crit)
	case criteria.CategoryZone:
		return s.scoreZone(c, crit)
	case criteria.CategoryCapacity:
		return s.scoreCapacity(c, crit)
	default:
		return s.scoreGeneric(c, crit)
	}
}

func (s *Scorer) scoreCertification(c *company.Company, crit *criteria.Criterion) company.CriterionScore {
	if len(c.Certifications) == 0 {
		return computed(0)
	}

	desc := strings.ToLower(crit.Description)

	named := make([]string, 0, len(s.tables.CertFamilies))
	for _, family := range s.tables.CertFamilies {
		for _, keyword := range family.Keywords {
			if strings.Contains(desc, keyword) {
				named = append(named, strings.ToLower(family.Name))
				break
			}
		}
	}

	// No specific family required: any certification at all satisfies the
	// criterion.
	if len(named) == 0 {
		return computed(100)
	}

	held := make([]string, 0, len(c.Certifications))
	for _, cert := range c.Certifications {
		held = append(held, strings.ToLower(cert))
	}

	matched := 0
	for _, want := range named {
		for _, cert := range held {
			if strings.Contains(cert, want) {
				matched++
				break
			}
		}
	}

	return computed(round100(matched, len(named)))
}

func (s *Scorer) scoreExperience(c *company.Company, crit *criteria.Criterion) company.CriterionScore {
	desc := strings.ToLower(crit.Description)
	text := strings.ToLower(c.Experience)

	required, okRequired := extract.MinimumCount(desc, s.tables.ProjectUnits)
	actual, okActual := extract.Count(text, s.tables.ProjectUnits)

	if okRequired && okActual && required > 0 {
		return computed(extract.Ratio(actual, required))
	}

	for _, keyword := range s.tables.ExperienceKeywords {
		if strings.Contains(text, keyword) {
			return computed(100)
		}
	}

	// Absence of evidence is not treated as absence of qualification.
	return low(partialCredit)
}

func (s *Scorer) scoreZone(c *company.Company, crit *criteria.Criterion) company.CriterionScore {
	zone := strings.ToLower(strings.TrimSpace(c.Zone()))
	if zone == "" {
		return computed(0)
	}

	// An explicit department list is decisive: full match or nothing.
	if len(crit.SelectedDepartments) > 0 {
		for _, dept := range crit.SelectedDepartments {
			code, name := extract.DepartmentToken(dept)
			if code != "" && strings.Contains(zone, code) {
				return computed(100)
			}
			if name != "" && strings.Contains(zone, name) {
				return computed(100)
			}
		}
		return computed(0)
	}

	desc := strings.ToLower(crit.Description)

	for _, keyword := range s.tables.RegionKeywords {
		if strings.Contains(desc, keyword) && strings.Contains(zone, keyword) {
			return computed(100)
		}
	}

	for _, code := range extract.DepartmentCodes(desc) {
		if strings.Contains(zone, code) {
			return computed(100)
		}
	}

	return low(partialCredit)
}

func (s *Scorer) scoreCapacity(c *company.Company, crit *criteria.Criterion) company.CriterionScore {
	desc := strings.ToLower(crit.Description)
	required, _ := extract.MinimumCount(desc, s.tables.EmployeeUnits)

	if employees := int(c.Employees); employees > 0 {
		if required > 0 {
			return computed(extract.Ratio(employees, required))
		}

		// No stated requirement: bigger is better.
		switch {
		case employees > 50:
			return computed(100)
		case employees > 20:
			return computed(90)
		case employees > 10:
			return computed(80)
		case employees > 5:
			return computed(70)
		default:
			return computed(50)
		}
	}

	if revenue, ok := extract.MonetaryAmount(strings.ToLower(c.Revenue)); ok {
		switch {
		case revenue > 10_000_000:
			return computed(100)
		case revenue > 5_000_000:
			return computed(90)
		case revenue > 1_000_000:
			return computed(80)
		case revenue > 500_000:
			return computed(70)
		case revenue > 100_000:
			return computed(60)
		default:
			return computed(50)
		}
	}

	return low(partialCredit)
}

func (s *Scorer) scoreGeneric(c *company.Company, crit *criteria.Criterion) company.CriterionScore {
	terms := s.tokenize(crit.Name + " " + crit.Description)
	if len(terms) == 0 {
		return low(partialCredit)
	}

	haystack := c.SearchableText()
	matched := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			matched++
		}
	}

	return computed(round100(matched, len(terms)))
}

// tokenize lowercases the text, strips punctuation, and keeps words longer
// than 3 characters that are not stop words.
func (s *Scorer) tokenize(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	terms := make([]string, 0, len(words))

	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if utf8.RuneCountInString(word) <= 3 {
			continue
		}
		if s.tables.isStopWord(word) {
			continue
		}
		terms = append(terms, word)
	}

	return terms
}

func round100(matched, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(matched)/float64(total)*100 + 0.5)
}

func computed(value int) company.CriterionScore {
	return company.CriterionScore{Value: value, Confidence: company.ConfidenceComputed}
}

func low(value int) company.CriterionScore {
	return company.CriterionScore{Value: value, Confidence: company.ConfidenceLow}
}
