package criteria

import "testing"

func TestResolveCategoryByKeyword(t *testing.T) {
	cases := []struct {
		name string
		want Category
	}{
		{"Certification MASE", CategoryCertification},
		{"Expérience dans projets similaires", CategoryExperience},
		{"Zone d'intervention", CategoryZone},
		{"Localisation du chantier", CategoryZone},
		{"Capacité de production", CategoryCapacity},
		{"Effectif minimum", CategoryCapacity},
		{"Références clients", CategoryGeneric},
	}

	for _, tc := range cases {
		c := &Criterion{Name: tc.name}
		if got := c.ResolveCategory(); got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestResolveCategoryExplicitTagWins(t *testing.T) {
	c := &Criterion{Name: "Certification MASE", Category: CategoryZone}
	if got := c.ResolveCategory(); got != CategoryZone {
		t.Fatalf("expected explicit tag to win, got %s", got)
	}
}

func TestResolveCategoryDispatchOrder(t *testing.T) {
	// "Certification sur la zone" names two families; certification is
	// checked first and must win.
	c := &Criterion{Name: "Certification sur la zone"}
	if got := c.ResolveCategory(); got != CategoryCertification {
		t.Fatalf("expected certification to win the dispatch, got %s", got)
	}
}

func TestSelected(t *testing.T) {
	list := []*Criterion{
		{ID: 1, Selected: true},
		{ID: 2, Selected: false},
		{ID: 3, Selected: true},
	}

	selected := Selected(list)
	if len(selected) != 2 || selected[0].ID != 1 || selected[1].ID != 3 {
		t.Fatalf("unexpected selection: %+v", selected)
	}
}

func TestNormalizeWeightsAlreadyValid(t *testing.T) {
	input := DefaultAttribution()

	normalized, err := NormalizeWeights(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := weightSum(normalized); got != 100 {
		t.Fatalf("expected sum 100, got %d", got)
	}

	for i := range input {
		if normalized[i].Weight != input[i].Weight {
			t.Fatalf("expected weights unchanged, got %+v", normalized[i])
		}
	}
}

func TestNormalizeWeightsScalesTo100(t *testing.T) {
	input := []*AttributionCriterion{
		{ID: 1, Name: "Qualité technique", Weight: 40},
		{ID: 2, Name: "Coût", Weight: 40},
		{ID: 3, Name: "Délais", Weight: 40},
	}

	normalized, err := NormalizeWeights(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := weightSum(normalized); got != 100 {
		t.Fatalf("expected sum 100, got %d", got)
	}

	// The residual lands on the first criterion only.
	if normalized[1].Weight != 33 || normalized[2].Weight != 33 {
		t.Fatalf("unexpected scaled weights: %+v", normalized)
	}

	if normalized[0].Weight != 34 {
		t.Fatalf("expected residual on first criterion, got %d", normalized[0].Weight)
	}

	// Input must stay untouched.
	if input[0].Weight != 40 {
		t.Fatalf("input was mutated: %+v", input[0])
	}
}

func TestNormalizeWeightsIdempotent(t *testing.T) {
	input := []*AttributionCriterion{
		{ID: 1, Weight: 7},
		{ID: 2, Weight: 13},
		{ID: 3, Weight: 5},
	}

	once, err := NormalizeWeights(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	twice, err := NormalizeWeights(once)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range once {
		if once[i].Weight != twice[i].Weight {
			t.Fatalf("normalize is not idempotent: %+v vs %+v", once[i], twice[i])
		}
	}
}

func TestNormalizeWeightsAllZero(t *testing.T) {
	input := []*AttributionCriterion{{ID: 1, Weight: 0}, {ID: 2, Weight: 0}}

	if _, err := NormalizeWeights(input); err != ErrZeroWeights {
		t.Fatalf("expected ErrZeroWeights, got %v", err)
	}
}

func TestNormalizeWeightsEmptySet(t *testing.T) {
	normalized, err := NormalizeWeights(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(normalized) != 0 {
		t.Fatalf("expected empty result, got %+v", normalized)
	}
}

func TestMergeUpdatesExistingPreservingSelection(t *testing.T) {
	existing := []*Criterion{
		{ID: 1, Name: "Certification MASE", Description: "ancienne description", Selected: false},
		{ID: 4, Name: "Zone d'intervention", Selected: true},
	}

	weight := 20
	suggested := []Suggestion{
		{Name: "certification mase", Description: "Certification MASE obligatoire", Weight: &weight},
	}

	merged := Merge(existing, suggested)
	if len(merged) != 2 {
		t.Fatalf("expected 2 criteria, got %d", len(merged))
	}

	updated := merged[0]
	if updated.ID != 1 {
		t.Fatalf("expected existing id preserved, got %d", updated.ID)
	}
	if updated.Selected {
		t.Fatal("suggestion without a selected flag must not flip the user's choice")
	}
	if updated.Description != "Certification MASE obligatoire" {
		t.Fatalf("expected refreshed description, got %q", updated.Description)
	}
	if updated.Weight != 20 {
		t.Fatalf("expected refreshed weight, got %d", updated.Weight)
	}

	// Originals stay untouched.
	if existing[0].Description != "ancienne description" {
		t.Fatalf("existing slice was mutated: %+v", existing[0])
	}
}

func TestMergeAppendsNewWithFreshID(t *testing.T) {
	existing := []*Criterion{
		{ID: 2, Name: "Expérience", Selected: true},
		{ID: 7, Name: "Zone d'intervention", Selected: true},
	}

	declined := false
	suggested := []Suggestion{
		{Name: "Capacité de production", Description: "Minimum 10 salariés"},
		{Name: "Références RSE", Selected: &declined},
	}

	merged := Merge(existing, suggested)
	if len(merged) != 4 {
		t.Fatalf("expected 4 criteria, got %d", len(merged))
	}

	capacity := merged[2]
	if capacity.ID != 8 {
		t.Fatalf("expected fresh id 8, got %d", capacity.ID)
	}
	if !capacity.Selected {
		t.Fatal("new suggestions default to selected")
	}

	rse := merged[3]
	if rse.ID != 9 {
		t.Fatalf("expected fresh id 9, got %d", rse.ID)
	}
	if rse.Selected {
		t.Fatal("suggestion explicitly unselected must stay unselected")
	}
}

func TestDefaultAttributionSumsTo100(t *testing.T) {
	if got := weightSum(DefaultAttribution()); got != 100 {
		t.Fatalf("expected default attribution to sum to 100, got %d", got)
	}
}

func weightSum(criteria []*AttributionCriterion) int {
	total := 0
	for _, c := range criteria {
		total += c.Weight
	}
	return total
}
