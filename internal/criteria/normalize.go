package criteria

import "errors"

// ErrZeroWeights reports an attribution set whose weights sum to zero and
// therefore cannot be scaled to 100.
var ErrZeroWeights = errors.New("attribution criteria weights sum to zero")

// NormalizeWeights rescales the attribution weights so they sum to exactly
// 100. A set that already sums to 100 is returned as a plain copy. Otherwise
// each weight is scaled by 100/sum and rounded, and the residual rounding
// drift is applied entirely to the first criterion so the total converges in
// a single pass. The input slice is never mutated.
func NormalizeWeights(criteria []*AttributionCriterion) ([]*AttributionCriterion, error) {
	if len(criteria) == 0 {
		return []*AttributionCriterion{}, nil
	}

	total := 0
	for _, c := range criteria {
		total += c.Weight
	}

	if total == 0 {
		return nil, ErrZeroWeights
	}

	normalized := make([]*AttributionCriterion, len(criteria))
	newTotal := 0
	for i, c := range criteria {
		clone := *c
		if total != 100 {
			clone.Weight = int(float64(c.Weight)/float64(total)*100 + 0.5)
		}
		newTotal += clone.Weight
		normalized[i] = &clone
	}

	if newTotal != 100 {
		normalized[0].Weight += 100 - newTotal
	}

	return normalized, nil
}
