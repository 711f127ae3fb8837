package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/MartinBouvet/panel-entreprises/internal/ai"
	"github.com/MartinBouvet/panel-entreprises/internal/criteria"
)

func TestSuggesterAnalyze(t *testing.T) {
	stub := &stubGenerator{response: `Voici l'analyse :
{
  "keywords": ["rénovation", "électricité", "haute tension"],
  "selectionCriteria": [
    {"name": "Certification MASE", "description": "Certification MASE exigée", "selected": true},
    {"name": "Délais courts", "description": "Livraison sous 6 mois", "selected": false}
  ],
  "attributionCriteria": [
    {"name": "Qualité technique", "weight": 60},
    {"name": "Coût", "weight": "40"}
  ]
}`}

	suggester := NewSuggester(stub, zap.NewNop(), 0)

	insights, err := suggester.Analyze(context.Background(), "Cahier des charges : rénovation électrique.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(insights.Keywords) != 3 || insights.Keywords[0] != "rénovation" {
		t.Fatalf("unexpected keywords: %v", insights.Keywords)
	}

	if len(insights.SelectionCriteria) != 2 {
		t.Fatalf("expected 2 selection criteria, got %d", len(insights.SelectionCriteria))
	}
	first := insights.SelectionCriteria[0]
	if first.Name != "Certification MASE" || first.Selected == nil || !*first.Selected {
		t.Fatalf("unexpected first suggestion: %+v", first)
	}
	second := insights.SelectionCriteria[1]
	if second.Selected == nil || *second.Selected {
		t.Fatalf("expected the second suggestion deselected, got %+v", second)
	}

	if len(insights.AttributionCriteria) != 2 {
		t.Fatalf("expected 2 attribution criteria, got %d", len(insights.AttributionCriteria))
	}
	if insights.AttributionCriteria[1].Weight != 40 {
		t.Fatalf("expected the string weight coerced to 40, got %d", insights.AttributionCriteria[1].Weight)
	}

	if !strings.Contains(stub.lastPrompt, "rénovation électrique") {
		t.Fatal("expected the document embedded in the prompt")
	}
}

func TestSuggesterAnalyzeEmptyDocument(t *testing.T) {
	suggester := NewSuggester(&stubGenerator{}, zap.NewNop(), 0)

	if _, err := suggester.Analyze(context.Background(), "   \n\t"); err == nil {
		t.Fatal("expected an error for an empty document")
	}
}

func TestSuggesterAnalyzeGeneratorFailure(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	suggester := NewSuggester(stub, zap.NewNop(), 0)

	_, err := suggester.Analyze(context.Background(), "Cahier des charges.")
	if !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSuggesterAnalyzeUnparseableResponse(t *testing.T) {
	stub := &stubGenerator{response: "aucune structure exploitable ici"}
	suggester := NewSuggester(stub, zap.NewNop(), 0)

	_, err := suggester.Analyze(context.Background(), "Cahier des charges.")
	if !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestParseInsightsMergeableSuggestions(t *testing.T) {
	insights, err := parseInsights(`{
  "selectionCriteria": [
    {"name": "Zone d'intervention", "description": "Île-de-France", "category": "zone"}
  ]
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged := criteria.Merge(nil, insights.SelectionCriteria)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged criterion, got %d", len(merged))
	}
	if merged[0].Category != criteria.CategoryZone {
		t.Fatalf("expected the category carried through, got %q", merged[0].Category)
	}
	if !merged[0].Selected {
		t.Fatal("expected the merged criterion selected by default")
	}
}
