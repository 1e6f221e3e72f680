package orchestrator

import (
	"testing"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/medmatch/matching-core/internal/reasoning"
	"github.com/stretchr/testify/assert"
)

func TestCategorizeStepMapsKeywordRubric(t *testing.T) {
	cases := []struct {
		details string
		want    domain.ReasoningCategory
	}{
		{"Patient is 54 years old, within the demographic range.", domain.CategoryAgeCheck},
		{"No exclusion criteria or contraindication risk identified.", domain.CategoryExclusionCheck},
		{"Primary diagnosis matches the target condition.", domain.CategoryConditionMatch},
		{"Current medication does not conflict with the study drug.", domain.CategoryMedicationCompat},
		{"No known allergy to the study agent.", domain.CategoryAllergyCheck},
		{"Patient's geographic location is within range of the site.", domain.CategoryLocationProximity},
		{"Trial is actively recruiting at this time.", domain.CategoryTrialStatusCheck},
		{"Recent lab values fall within the required range.", domain.CategoryLabValuesCheck},
		{"General inclusion criteria appear satisfied.", domain.CategoryInclusionCheck},
		{"Patient looks like a reasonable fit overall.", domain.CategoryInclusionCheck},
	}
	for _, c := range cases {
		got := categorizeStep(reasoning.RawStep{Category: "assessment", Details: c.details})
		assert.Equal(t, c.want, got, c.details)
	}
}

func TestResultFromStepThresholds(t *testing.T) {
	assert.Equal(t, domain.ResultPass, resultFromStep(reasoning.RawStep{Confidence: 0.9}))
	assert.Equal(t, domain.ResultFail, resultFromStep(reasoning.RawStep{Confidence: 0.1}))
	assert.Equal(t, domain.ResultPartial, resultFromStep(reasoning.RawStep{Confidence: 0.5}))
}

func TestBuildReasoningChainRenumbersSteps(t *testing.T) {
	chain := buildReasoningChain([]reasoning.RawStep{
		{Category: "assessment", Details: "age is fine", Confidence: 0.9},
		{Category: "analysis", Details: "condition matches", Confidence: 0.8},
	})
	a := assert.New(t)
	a.Len(chain, 2)
	a.Equal(1, chain[0].Step)
	a.Equal(2, chain[1].Step)
}
