package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/MartinBouvet/panel-entreprises/internal/ai"
	"github.com/MartinBouvet/panel-entreprises/internal/logger"
)

//go:embed analyze_prompt.md
var analyzePromptTemplate string

// analyzeTemperature keeps document extraction as deterministic as possible.
const analyzeTemperature = 0.1

// Suggester asks the Gemini service to analyze a tender document and propose
// keywords, selection criteria and an attribution-weight split.
type Suggester struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewSuggester(generator contentGenerator, log *zap.Logger, maxLogLength int) *Suggester {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Suggester{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Analyze extracts DocumentInsights from the document text. The response is
// expected to contain exactly one JSON object; the loosely-typed payload is
// decoded weakly so numeric weights survive arriving as floats or strings.
func (s *Suggester) Analyze(ctx context.Context, documentText string) (*ai.DocumentInsights, error) {
	documentText = strings.TrimSpace(documentText)
	if documentText == "" {
		return nil, fmt.Errorf("document text is empty")
	}

	prompt := buildAnalyzePrompt(documentText)

	s.logger.Debug("gemini analyze request",
		zap.Int("document_length", utf8.RuneCountInString(documentText)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt, analyzeTemperature)
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %v", ai.ErrUnavailable, err)
	}

	s.logger.Debug("gemini analyze response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	insights, err := parseInsights(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrUnavailable, err)
	}

	return insights, nil
}

func parseInsights(raw string) (*ai.DocumentInsights, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("parse analysis object: %w", err)
	}

	insights := &ai.DocumentInsights{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           insights,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build insights decoder: %w", err)
	}

	if err := decoder.Decode(payload); err != nil {
		return nil, fmt.Errorf("decode analysis object: %w", err)
	}

	return insights, nil
}

func buildAnalyzePrompt(documentText string) string {
	template := analyzePromptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Document:\n{{DOCUMENT_TEXT}}\n\nJSON:"
	}
	return strings.ReplaceAll(template, "{{DOCUMENT_TEXT}}", documentText)
}
