package scoring

import (
	"context"

	"go.uber.org/zap"

	"github.com/MartinBouvet/panel-entreprises/internal/company"
	"github.com/MartinBouvet/panel-entreprises/internal/criteria"
)

// HeuristicMatcher scores every company of a batch against the selected
// criteria using the local rules only. It is deterministic, needs no network,
// and never fails a batch: a fault while scoring one criterion contributes a
// zero for that criterion and the batch continues.
type HeuristicMatcher struct {
	scorer *Scorer
	logger *zap.Logger
}

// NewHeuristicMatcher creates a matcher backed by the default lookup tables.
func NewHeuristicMatcher(logger *zap.Logger) *HeuristicMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HeuristicMatcher{scorer: NewScorer(), logger: logger}
}

// NewHeuristicMatcherWithScorer creates a matcher around a custom scorer.
func NewHeuristicMatcherWithScorer(scorer *Scorer, logger *zap.Logger) *HeuristicMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HeuristicMatcher{scorer: scorer, logger: logger}
}

// Match scores every company against every selected criterion and returns the
// full, unsorted result set. With no selected criteria every company scores
// 100: no active constraints means no one is excluded.
func (m *HeuristicMatcher) Match(ctx context.Context, companies *company.Companies, list []*criteria.Criterion) ([]*company.Scored, error) {
	selected := criteria.Selected(list)

	results := make([]*company.Scored, 0, companies.Len())
	for _, c := range companies.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c == nil {
			continue
		}

		if len(selected) == 0 {
			results = append(results, &company.Scored{
				Company:   c,
				Score:     100,
				Breakdown: map[string]company.CriterionScore{},
				Source:    company.SourceHeuristic,
			})
			continue
		}

		breakdown := make(map[string]company.CriterionScore, len(selected))
		total := 0
		for _, crit := range selected {
			score := m.scoreOne(c, crit)
			breakdown[crit.Name] = score
			total += score.Value
		}

		results = append(results, &company.Scored{
			Company:   c,
			Score:     int(float64(total)/float64(len(selected)) + 0.5),
			Breakdown: breakdown,
			Source:    company.SourceHeuristic,
		})
	}

	return results, nil
}

// scoreOne isolates a single company/criterion evaluation so a fault in one
// cell cannot abort the rest of the batch.
func (m *HeuristicMatcher) scoreOne(c *company.Company, crit *criteria.Criterion) (score company.CriterionScore) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("scoring fault, criterion contributes zero",
				zap.String("company_id", c.ID),
				zap.Int("criterion_id", crit.ID),
				zap.String("criterion_name", crit.Name),
				zap.Any("fault", r),
			)
			score = company.CriterionScore{Value: 0, Confidence: company.ConfidenceLow}
		}
	}()

	return m.scorer.Score(c, crit)
}
