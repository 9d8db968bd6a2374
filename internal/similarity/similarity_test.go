package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "aspirin 500 mg", Normalize("  Aspirin (500 mg) "))
	assert.Equal(t, "но шпа", Normalize("Но-шпа"))
	assert.Equal(t, "", Normalize("()"))
}

func TestRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 100, Ratio("aspirin", "aspirin"), 0.001)
	assert.InDelta(t, 87.5, Ratio("aspirine", "aspirin"), 0.001)
	assert.InDelta(t, 0, Ratio("", ""), 0.001)
}

func TestPartialRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 100, PartialRatio("aspirin", "aspirin cardio"), 0.001)
	assert.InDelta(t, 0, PartialRatio("", "aspirin"), 0.001)
}

func TestTokenSetRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 100, TokenSetRatio("aspirin cardio", "cardio"), 0.001)
	assert.InDelta(t, 100, TokenSetRatio("cardio aspirin", "aspirin cardio"), 0.001)
}

func TestWeightedRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		cand  string
		want  float64
	}{
		{name: "case only", query: "Aspirin", cand: "ASPIRIN", want: 100},
		{name: "typo", query: "aspirine", cand: "Aspirin", want: 87.5},
		{name: "word order", query: "Cardio Aspirin", cand: "aspirin cardio", want: 95},
		{name: "typo against name with dosage", query: "aspirine", cand: "Aspirin (500 mg)", want: 78.75},
		{name: "empty query", query: "  ", cand: "Aspirin", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, WeightedRatio(tt.query, tt.cand), 0.01)
		})
	}
}

func TestWeightedRatio_UnrelatedNamesScoreLow(t *testing.T) {
	t.Parallel()

	assert.Less(t, WeightedRatio("aspirine", "Ibuprofen"), 60.0)
	assert.Less(t, WeightedRatio("paracetamol", "Nurofen"), 60.0)
}

// ---------------------------------------------------------------------------
// FindSimilar
// ---------------------------------------------------------------------------

func cands(names ...string) []Candidate[int] {
	out := make([]Candidate[int], len(names))
	for i, n := range names {
		out[i] = Candidate[int]{Name: n, Value: i}
	}
	return out
}

func TestFindSimilar_EmptyCandidates(t *testing.T) {
	t.Parallel()

	got := FindSimilar[int]("aspirin", nil, 3, 60)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindSimilar_TypoFindsVerifiedEntry(t *testing.T) {
	t.Parallel()

	got := FindSimilar("aspirine", cands("Ibuprofen", "Aspirin (500 mg)", "Nurofen"), 3, 60)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Value)
	assert.Equal(t, "Aspirin (500 mg)", got[0].Name)
	assert.GreaterOrEqual(t, got[0].Score, 60.0)
}

func TestFindSimilar_OrdersByScore(t *testing.T) {
	t.Parallel()

	got := FindSimilar("aspirin", cands("Aspirin Cardio", "Aspirin", "Aspirinum"), 3, 60)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].Value)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestFindSimilar_StableOnTies(t *testing.T) {
	t.Parallel()

	got := FindSimilar("aspirin", cands("Aspirin", "aspirin", "ASPIRIN"), 3, 60)
	require.Len(t, got, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{got[0].Value, got[1].Value, got[2].Value})
}

func TestFindSimilar_LimitAppliesBeforeThreshold(t *testing.T) {
	t.Parallel()

	got := FindSimilar("aspirin", cands("Aspirin", "Aspirin", "Aspirin", "Aspirin"), 2, 60)
	assert.Len(t, got, 2)

	got = FindSimilar("aspirin", cands("Ibuprofen", "Aspirin"), 1, 60)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Value)
}

func TestFindSimilar_ThresholdDropsWeakMatches(t *testing.T) {
	t.Parallel()

	got := FindSimilar("aspirine", cands("Ibuprofen", "Paracetamol"), 3, 60)
	assert.Empty(t, got)
}

func TestFindSimilar_ZeroLimit(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FindSimilar("aspirin", cands("Aspirin"), 0, 0))
}
