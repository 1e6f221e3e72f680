package search

import (
	"testing"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrial(nctID, title string, conditions []string) domain.Trial {
	return domain.Trial{
		NCTID:       nctID,
		Title:       title,
		BriefSummary: "A study of " + title,
		Status:      domain.StatusRecruiting,
		Conditions:  conditions,
		Eligibility: domain.EligibilityCriteria{
			RawText: "Inclusion: adults 18 to 75. Exclusion: pregnancy.",
		},
	}
}

func TestIndexTrialRejectsInvalidNCTID(t *testing.T) {
	idx := NewIndex()
	bad := sampleTrial("not-an-nct-id", "Bad trial", []string{"cancer"})
	err := idx.IndexTrial(bad)
	require.Error(t, err)
	assert.Equal(t, 0, idx.Size())
}

func TestIndexTrialReplacesExistingEntry(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.IndexTrial(sampleTrial("NCT00000001", "Original title", []string{"cancer"})))
	require.NoError(t, idx.IndexTrial(sampleTrial("NCT00000001", "Updated title", []string{"cancer"})))

	assert.Equal(t, 1, idx.Size())
	snap := idx.snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "Updated title", snap[0].Trial.Title)
}

func TestBulkIndexCountsSuccesses(t *testing.T) {
	idx := NewIndex()
	trials := []domain.Trial{
		sampleTrial("NCT00000001", "Trial one", []string{"cancer"}),
		sampleTrial("bad-id", "Trial two", []string{"cancer"}),
		sampleTrial("NCT00000003", "Trial three", []string{"diabetes"}),
	}
	assert.Equal(t, 2, idx.BulkIndex(trials))
	assert.Equal(t, 2, idx.Size())
}

func TestRemoveAndClear(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.IndexTrial(sampleTrial("NCT00000001", "Trial one", []string{"cancer"})))
	require.NoError(t, idx.IndexTrial(sampleTrial("NCT00000002", "Trial two", []string{"diabetes"})))

	idx.Remove("NCT00000001")
	assert.Equal(t, 1, idx.Size())

	idx.Clear()
	assert.Equal(t, 0, idx.Size())
}

func TestExtractKeywordsFindsVocabularyAndPatterns(t *testing.T) {
	kws := extractKeywords("Patient with Type 2 diabetes and NCT12345678 referenced, cardiology consult")
	assert.Contains(t, kws, "diabetes")
	assert.Contains(t, kws, "type 2")
	assert.Contains(t, kws, "nct12345678")
}
