package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/MartinBouvet/panel-entreprises/internal/ai"
	"github.com/MartinBouvet/panel-entreprises/internal/company"
	"github.com/MartinBouvet/panel-entreprises/internal/criteria"
	"github.com/MartinBouvet/panel-entreprises/internal/logger"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, temperature float32) (string, error)
}

//go:embed match_prompt.md
var matchPromptTemplate string

const (
	defaultMaxLogLength = 200

	// matchTemperature keeps shortlist scoring mostly deterministic while
	// leaving room for the model to weigh free-text evidence.
	matchTemperature = 0.3
)

// Matcher delegates shortlist scoring to the Gemini service. It is a
// shortlist proposer: the service returns only its top 3-5 companies, and
// the result is a strict subset of the input roster.
type Matcher struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewMatcher(generator contentGenerator, log *zap.Logger, maxLogLength int) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Matcher{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Match serializes the roster and the selected criteria into the evaluation
// prompt and parses the ranked shortlist out of the response. Every failure
// wraps ai.ErrUnavailable; the matcher never retries.
func (m *Matcher) Match(ctx context.Context, companies *company.Companies, list []*criteria.Criterion) ([]*company.Scored, error) {
	if companies.Len() == 0 {
		return nil, fmt.Errorf("company list is empty")
	}

	selected := criteria.Selected(list)

	criteriaJSON, err := json.MarshalIndent(selected, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshal criteria payload: %v", ai.ErrUnavailable, err)
	}

	companiesJSON, err := json.MarshalIndent(companies.Items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshal companies payload: %v", ai.ErrUnavailable, err)
	}

	prompt := buildMatchPrompt(string(criteriaJSON), string(companiesJSON))

	m.logger.Debug("gemini match request",
		zap.Int("companies", companies.Len()),
		zap.Int("criteria", len(selected)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, prompt, matchTemperature)
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %v", ai.ErrUnavailable, err)
	}

	m.logger.Debug("gemini match response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, m.maxLogLen)),
	)

	entries, err := parseRanking(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrUnavailable, err)
	}

	results := m.resolveEntries(entries, companies)
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: response named no known company", ai.ErrUnavailable)
	}

	return results, nil
}

// resolveEntries maps ranked entries back onto the input roster, preferring
// id lookup and falling back to the name. Entries naming unknown companies
// are dropped with a log line.
func (m *Matcher) resolveEntries(entries []rankedEntry, companies *company.Companies) []*company.Scored {
	byID := make(map[string]*company.Company, companies.Len())
	byName := make(map[string]*company.Company, companies.Len())
	for _, c := range companies.Items {
		byID[strings.ToLower(c.ID)] = c
		byName[strings.ToLower(c.Name)] = c
	}

	results := make([]*company.Scored, 0, len(entries))
	for _, entry := range entries {
		c := byID[strings.ToLower(entry.id)]
		if c == nil {
			c = byName[strings.ToLower(entry.name)]
		}
		if c == nil {
			m.logger.Warn("gemini ranked an unknown company",
				zap.String("id", entry.id),
				zap.String("name", entry.name),
			)
			continue
		}

		results = append(results, &company.Scored{
			Company: c,
			Score:   clampScore(entry.score),
			Source:  company.SourceAI,
			Reasons: entry.reasons,
		})
	}

	return results
}

type rankedEntry struct {
	id      string
	name    string
	score   int
	reasons string
}

// parseRanking locates the first '[' and the last ']' in the raw response
// and decodes that substring as the expected ranked array.
func parseRanking(raw string) ([]rankedEntry, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &decoded); err != nil {
		return nil, fmt.Errorf("parse ranked array: %w", err)
	}

	entries := make([]rankedEntry, 0, len(decoded))
	for _, item := range decoded {
		entries = append(entries, rankedEntry{
			id:      coerceString(item["id"]),
			name:    coerceString(item["name"]),
			score:   coerceInt(item["score"]),
			reasons: coerceString(item["matchReasons"]),
		})
	}

	return entries, nil
}

func buildMatchPrompt(criteriaJSON, companiesJSON string) string {
	template := matchPromptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Critères:\n{{CRITERIA_JSON}}\n\nEntreprises:\n{{COMPANIES_JSON}}\n\nJSON:"
	}
	prompt := strings.ReplaceAll(template, "{{CRITERIA_JSON}}", criteriaJSON)
	prompt = strings.ReplaceAll(prompt, "{{COMPANIES_JSON}}", companiesJSON)
	return prompt
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func coerceInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val + 0.5)
	case int:
		return val
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0
		}
		return int(f + 0.5)
	default:
		return 0
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		if v == nil {
			return ""
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
