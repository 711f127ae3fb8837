// Package criteria holds the selection and attribution criteria types shared
// by the matching engine, together with the set-level operations performed
// when a criteria set is authored, AI-refreshed or merged.
package criteria

import "strings"

// Category identifies which scoring family a selection criterion belongs to.
// Criteria authored through the API may carry an explicit category; free-text
// criteria fall back to the keyword classifier in ResolveCategory.
type Category string

const (
	CategoryCertification Category = "certification"
	CategoryExperience    Category = "experience"
	CategoryZone          Category = "zone"
	CategoryCapacity      Category = "capacity"
	CategoryGeneric       Category = "generic"
)

// Criterion is a single selection criterion. Name and Description are free
// text; unselected criteria are excluded from scoring entirely.
type Criterion struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category,omitempty"`
	Selected    bool     `json:"selected"`
	// SelectedDepartments holds explicit "NN - Name" department entries and
	// overrides description-based zone inference when present.
	SelectedDepartments []string `json:"selectedDepartments,omitempty"`
	// Options carries enumerable choices for the region picker UI; it is not
	// scored directly.
	Options []string `json:"options,omitempty"`
	Weight  int      `json:"weight,omitempty"`
}

// AttributionCriterion weighs offers during the later evaluation phase. A set
// is valid for document generation only when its weights sum to exactly 100.
type AttributionCriterion struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// categoryKeywords is checked in order; the first category whose keyword
// appears in the lowercased criterion name wins.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryCertification, []string{"certification", "mase"}},
	{CategoryExperience, []string{"expérience", "projet"}},
	{CategoryZone, []string{"zone", "région", "localisation"}},
	{CategoryCapacity, []string{"capacité", "taille", "effectif", "production"}},
}

// ResolveCategory returns the criterion's explicit category when one is set,
// otherwise classifies it by keyword lookup on the name.
func (c *Criterion) ResolveCategory() Category {
	if c.Category != "" {
		return c.Category
	}

	name := strings.ToLower(c.Name)
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(name, keyword) {
				return entry.category
			}
		}
	}

	return CategoryGeneric
}

// Selected returns the subset of criteria the user kept active.
func Selected(list []*Criterion) []*Criterion {
	selected := make([]*Criterion, 0, len(list))
	for _, c := range list {
		if c.Selected {
			selected = append(selected, c)
		}
	}

	return selected
}

// DefaultSelection returns the canned selection criteria proposed when a
// consultation starts from scratch, before any document analysis ran.
func DefaultSelection() []*Criterion {
	return []*Criterion{
		{
			ID:          1,
			Name:        "Expérience dans projets similaires",
			Description: "Minimum 3 projets similaires réalisés dans les 5 dernières années",
			Selected:    true,
		},
		{
			ID:          2,
			Name:        "Certification MASE ou équivalent",
			Description: "Certification obligatoire pour ce type de travaux",
			Selected:    true,
		},
		{
			ID:          3,
			Name:        "Zone d'intervention",
			Description: "Sélectionnez les départements concernés",
			Selected:    true,
			Options: []string{
				"01 - Ain", "02 - Aisne", "03 - Allier", "04 - Alpes-de-Haute-Provence",
				"05 - Hautes-Alpes", "06 - Alpes-Maritimes", "07 - Ardèche", "08 - Ardennes",
				"09 - Ariège", "10 - Aube", "11 - Aude", "12 - Aveyron",
			},
		},
		{
			ID:          4,
			Name:        "Capacité de production",
			Description: "Minimum 10 salariés pour assurer les délais",
			Selected:    true,
		},
	}
}

// DefaultAttribution returns the canned attribution-weight split. The weights
// sum to 100 by construction.
func DefaultAttribution() []*AttributionCriterion {
	return []*AttributionCriterion{
		{ID: 1, Name: "Qualité technique de l'offre", Weight: 40},
		{ID: 2, Name: "Coût global de l'offre", Weight: 30},
		{ID: 3, Name: "Respect des délais", Weight: 15},
		{ID: 4, Name: "Qualité de l'organisation sécurité", Weight: 10},
		{ID: 5, Name: "Intégration de la RSE", Weight: 5},
	}
}
