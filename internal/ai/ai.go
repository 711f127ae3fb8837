// Package ai defines the boundary between the matching engine and the
// external language-model service: the matcher/suggester contracts and the
// typed failure the orchestrator recovers from.
package ai

import (
	"context"
	"errors"

	"github.com/MartinBouvet/panel-entreprises/internal/company"
	"github.com/MartinBouvet/panel-entreprises/internal/criteria"
)

// ErrUnavailable wraps every transport, timeout or response-parse failure of
// the remote service. The orchestrator recovers from it by falling back to
// the local heuristic matcher; it is never surfaced to callers as a hard
// failure.
var ErrUnavailable = errors.New("remote matching unavailable")

// Matcher proposes a ranked shortlist for the given companies and criteria.
// Remote implementations may return a strict subset of the input companies;
// padding the list is the orchestrator's concern, not the matcher's.
type Matcher interface {
	Match(ctx context.Context, companies *company.Companies, criteria []*criteria.Criterion) ([]*company.Scored, error)
}

// DocumentInsights is the outcome of analyzing a tender document: keywords
// characterizing the project, suggested selection criteria, and a suggested
// attribution-weight split.
type DocumentInsights struct {
	Keywords            []string                         `json:"keywords" mapstructure:"keywords"`
	SelectionCriteria   []criteria.Suggestion            `json:"selectionCriteria" mapstructure:"selectionCriteria"`
	AttributionCriteria []*criteria.AttributionCriterion `json:"attributionCriteria" mapstructure:"attributionCriteria"`
}

// Suggester extracts DocumentInsights from the free text of a tender
// document.
type Suggester interface {
	Analyze(ctx context.Context, documentText string) (*DocumentInsights, error)
}
