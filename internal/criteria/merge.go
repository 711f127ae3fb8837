package criteria

import "strings"

// Suggestion is a criterion proposed by the AI document analysis. Selected is
// a tri-state pointer: a suggestion that omits the flag must never override
// the user's choice on an existing criterion of the same name.
type Suggestion struct {
	Name                string   `json:"name" mapstructure:"name"`
	Description         string   `json:"description,omitempty" mapstructure:"description"`
	Category            Category `json:"category,omitempty" mapstructure:"category"`
	Selected            *bool    `json:"selected,omitempty" mapstructure:"selected"`
	SelectedDepartments []string `json:"selectedDepartments,omitempty" mapstructure:"selectedDepartments"`
	Options             []string `json:"options,omitempty" mapstructure:"options"`
	Weight              *int     `json:"weight,omitempty" mapstructure:"weight"`
}

// Merge folds AI-suggested criteria into the user's existing set. Suggestions
// are matched to existing criteria by lowercase name; on a match the
// description, options and weight are refreshed while the existing id and
// selected state are preserved. Unmatched suggestions are appended with a
// fresh id (max existing id + 1) and default to selected unless the
// suggestion says otherwise. The input slices are not mutated.
func Merge(existing []*Criterion, suggested []Suggestion) []*Criterion {
	merged := make([]*Criterion, 0, len(existing)+len(suggested))
	byName := make(map[string]*Criterion, len(existing))
	maxID := 0

	for _, c := range existing {
		clone := *c
		merged = append(merged, &clone)
		byName[strings.ToLower(c.Name)] = &clone
		if c.ID > maxID {
			maxID = c.ID
		}
	}

	for _, s := range suggested {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}

		if current, ok := byName[strings.ToLower(name)]; ok {
			if s.Description != "" {
				current.Description = s.Description
			}
			if len(s.Options) > 0 {
				current.Options = s.Options
			}
			if s.Weight != nil {
				current.Weight = *s.Weight
			}
			continue
		}

		maxID++
		added := &Criterion{
			ID:                  maxID,
			Name:                name,
			Description:         s.Description,
			Category:            s.Category,
			Selected:            s.Selected == nil || *s.Selected,
			SelectedDepartments: s.SelectedDepartments,
			Options:             s.Options,
		}
		if s.Weight != nil {
			added.Weight = *s.Weight
		}

		merged = append(merged, added)
		byName[strings.ToLower(name)] = added
	}

	return merged
}
