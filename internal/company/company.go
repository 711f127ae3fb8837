// Package company defines the candidate companies fed into the matching
// engine and the scored results it produces. Companies are read-only inputs;
// scoring always yields a parallel Scored value.
package company

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// Source records which matcher produced a score.
type Source string

const (
	SourceAI        Source = "ai"
	SourceHeuristic Source = "heuristic"
)

// Confidence distinguishes a computed score from a documented partial-credit
// default returned when a scorer could not resolve the underlying data.
type Confidence string

const (
	ConfidenceComputed Confidence = "computed"
	ConfidenceLow      Confidence = "low"
)

// Count is an employee headcount that tolerates both JSON numbers and free
// text ("85", "environ 40 personnes"). Unparseable input decodes to zero
// rather than failing the whole payload.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Count(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*c = 0
		return nil
	}

	*c = ParseCount(s)
	return nil
}

func (c Count) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(c))
}

// ParseCount extracts the first integer found in the text, or zero.
func ParseCount(s string) Count {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Count(n)
	}

	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			n, _ := strconv.Atoi(s[start:i])
			return Count(n)
		}
	}
	if start != -1 {
		n, _ := strconv.Atoi(s[start:])
		return Count(n)
	}

	return 0
}

// Company is a candidate organization. Most fields are free text as imported
// from company rosters; the engine never mutates them.
type Company struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Location   string `json:"location,omitempty"`
	Experience string `json:"experience,omitempty"`
	// Revenue is the raw "chiffre d'affaires" field, e.g. "12M€".
	Revenue          string   `json:"ca,omitempty"`
	Employees        Count    `json:"employees,omitempty"`
	Certifications   []string `json:"certifications,omitempty"`
	InterventionZone string   `json:"interventionZone,omitempty"`
}

// Zone returns the dedicated intervention-zone field when present, falling
// back to the company's location.
func (c *Company) Zone() string {
	if strings.TrimSpace(c.InterventionZone) != "" {
		return c.InterventionZone
	}
	return c.Location
}

// SearchableText serializes the company into a lowercase string for generic
// keyword matching.
func (c *Company) SearchableText() string {
	data, err := json.Marshal(c)
	if err != nil {
		return strings.ToLower(c.Name)
	}
	return strings.ToLower(string(data))
}

// Companies is the roster handed to a match request.
type Companies struct {
	Items []*Company `json:"items"`
}

func (c *Companies) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// FromFile loads a roster from a JSON file holding either a bare array of
// companies or an {"items": [...]} wrapper.
func FromFile(path string) (*Companies, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []*Company
	if err := json.Unmarshal(data, &items); err == nil {
		return &Companies{Items: items}, nil
	}

	companies := &Companies{}
	if err := json.Unmarshal(data, companies); err != nil {
		return nil, err
	}

	return companies, nil
}

// CriterionScore is one entry of a scored company's per-criterion breakdown.
type CriterionScore struct {
	Value      int        `json:"value"`
	Confidence Confidence `json:"confidence"`
}

// Scored pairs a company with its overall match score, the per-criterion
// breakdown and the provenance of the scoring strategy.
type Scored struct {
	Company   *Company                  `json:"company"`
	Score     int                       `json:"score"`
	Breakdown map[string]CriterionScore `json:"matchDetails,omitempty"`
	Source    Source                    `json:"source"`
	// Reasons carries the free-text justification returned by the AI
	// shortlist; empty on the heuristic path.
	Reasons string `json:"matchReasons,omitempty"`
}

// Ranking is a sorted list of scored companies.
type Ranking struct {
	Items []*Scored `json:"items"`
}

func (r *Ranking) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

// DumpToTmpFile writes the ranking to a temporary JSON file and returns its
// path.
func (r *Ranking) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "ranking_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
