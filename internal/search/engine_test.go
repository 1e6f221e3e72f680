package search

import (
	"testing"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRRFTermMatchesSpecWorkedExample(t *testing.T) {
	// Two trials, A: semantic rank 1, lexical rank 5; B: semantic rank
	// 10, lexical rank 1. With k=60, A's RRF ~= 0.0317, B's ~= 0.0307;
	// A must precede B.
	aRRF := rrfTerm(1) + rrfTerm(5)
	bRRF := rrfTerm(10) + rrfTerm(1)
	assert.InDelta(t, 0.0317, aRRF, 0.001)
	assert.InDelta(t, 0.0307, bRRF, 0.001)
	assert.Greater(t, aRRF, bRRF)
}

func TestRRFTermIsZeroForAbsentRank(t *testing.T) {
	assert.Equal(t, 0.0, rrfTerm(rankOrInf(map[string]int{}, "missing")))
}

func TestSearchLexicalFindsSubstringMatches(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.IndexTrial(sampleTrial("NCT00000001", "Metastatic breast cancer treatment study", []string{"breast cancer"})))
	require.NoError(t, idx.IndexTrial(sampleTrial("NCT00000002", "Type 2 diabetes management trial", []string{"diabetes"})))

	engine := NewEngine(idx)
	results := engine.Search(Query{Text: "breast cancer", Mode: domain.SearchLexical, Limit: 10})

	require.Len(t, results.Results, 1)
	assert.Equal(t, "NCT00000001", results.Results[0].TrialID)
}

func TestSearchLexicalCreditsSynonymMatches(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.IndexTrial(sampleTrial("NCT00000001", "Carcinoma immunotherapy trial", []string{"carcinoma"})))

	engine := NewEngine(idx)
	results := engine.Search(Query{Text: "cancer", Mode: domain.SearchLexical, Limit: 10})

	require.Len(t, results.Results, 1)
	assert.NotEmpty(t, results.Results[0].MatchedConcepts)
}

func TestSearchSemanticThresholdExcludesUnrelatedTrials(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.IndexTrial(sampleTrial("NCT00000001", "Metastatic breast cancer study", []string{"breast cancer"})))
	require.NoError(t, idx.IndexTrial(sampleTrial("NCT00000002", "Routine dental cleaning observational study", []string{"dental"})))

	engine := NewEngine(idx)
	results := engine.Search(Query{Text: "metastatic breast cancer treatment", Mode: domain.SearchSemantic, Limit: 10})

	for _, r := range results.Results {
		assert.Greater(t, r.SimilarityScore, 0.1)
	}
}

func TestSearchHybridIsDeterministicAcrossCalls(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.IndexTrial(sampleTrial("NCT00000001", "Metastatic breast cancer study", []string{"breast cancer"})))
	require.NoError(t, idx.IndexTrial(sampleTrial("NCT00000002", "Type 2 diabetes trial", []string{"diabetes"})))

	engine := NewEngine(idx)
	q := Query{Text: "breast cancer", Mode: domain.SearchHybrid, Limit: 10}

	first := engine.Search(q)
	second := engine.Search(q)
	assert.Equal(t, first, second)
}

func TestSearchConditionFilterIsCaseInsensitive(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.IndexTrial(sampleTrial("NCT00000001", "Breast cancer study", []string{"Breast Cancer"})))
	require.NoError(t, idx.IndexTrial(sampleTrial("NCT00000002", "Diabetes study", []string{"Diabetes"})))

	engine := NewEngine(idx)
	results := engine.Search(Query{Text: "", Keywords: []string{"study"}, Mode: domain.SearchLexical, Conditions: []string{"breast cancer"}, Limit: 10})

	for _, r := range results.Results {
		assert.Equal(t, "NCT00000001", r.TrialID)
	}
}

func TestSearchAgeRangeFilterExcludesNonOverlapping(t *testing.T) {
	idx := NewIndex()
	trial := sampleTrial("NCT00000001", "Pediatric asthma study", []string{"asthma"})
	young := 2
	old := 12
	trial.Eligibility.AgeRequirements = domain.AgeRequirements{Min: &young, Max: &old, Units: "years"}
	require.NoError(t, idx.IndexTrial(trial))

	engine := NewEngine(idx)
	requestedMin, requestedMax := 40, 65
	results := engine.Search(Query{
		Keywords: []string{"asthma"},
		Mode:     domain.SearchLexical,
		AgeRange: domain.AgeRequirements{Min: &requestedMin, Max: &requestedMax},
		Limit:    10,
	})

	assert.Empty(t, results.Results)
}

func TestSearchPaginationSlicesAfterFiltering(t *testing.T) {
	idx := NewIndex()
	for i := 1; i <= 5; i++ {
		require.NoError(t, idx.IndexTrial(sampleTrial(
			"NCT0000000"+string(rune('0'+i)), "Cancer trial", []string{"cancer"})))
	}

	engine := NewEngine(idx)
	results := engine.Search(Query{Keywords: []string{"cancer"}, Mode: domain.SearchLexical, Limit: 2, Offset: 1})

	assert.Equal(t, 5, results.TotalCount)
	assert.Len(t, results.Results, 2)
}
