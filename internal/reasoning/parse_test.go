package reasoning

import (
	"testing"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseEligibilityStatusPositive(t *testing.T) {
	assert.Equal(t, domain.MatchEligible, parseEligibilityStatus("The patient is eligible for enrollment."))
}

func TestParseEligibilityStatusNegativeIsNotAlsoPositive(t *testing.T) {
	// "not eligible" contains the substring "eligible"; it must not also
	// register as a positive signal and trigger requires_review.
	assert.Equal(t, domain.MatchIneligible, parseEligibilityStatus("The patient is not eligible due to age."))
}

func TestParseEligibilityStatusConflictingSignalsRequireReview(t *testing.T) {
	text := "The patient is eligible based on diagnosis but ineligible due to current medication."
	assert.Equal(t, domain.MatchRequiresReview, parseEligibilityStatus(text))
}

func TestParseEligibilityStatusNeitherSignalRequiresReview(t *testing.T) {
	assert.Equal(t, domain.MatchRequiresReview, parseEligibilityStatus("Further testing is needed."))
}

func TestParseConfidenceScoreExplicitPercentage(t *testing.T) {
	assert.Equal(t, 0.85, parseConfidenceScore("Confidence: 85%", domain.MatchEligible))
	assert.Equal(t, 0.9, parseConfidenceScore("90% confidence in this assessment", domain.MatchEligible))
}

func TestParseConfidenceScoreDefaultsByVerdict(t *testing.T) {
	assert.Equal(t, 0.8, parseConfidenceScore("eligible, no percentage given", domain.MatchEligible))
	assert.Equal(t, 0.7, parseConfidenceScore("ineligible, no percentage given", domain.MatchIneligible))
	assert.Equal(t, 0.5, parseConfidenceScore("unclear", domain.MatchRequiresReview))
}

func TestParseReasoningChainOrdersSectionsFixed(t *testing.T) {
	text := "Conclusion: Not a fit.\n\nAssessment: Patient has advanced disease.\n\nAnalysis: Criteria partially met.\n\n"
	chain := parseReasoningChain(text)
	wantOrder := []string{"assessment", "analysis", "conclusion"}
	assert.Len(t, chain, 3)
	for i, step := range chain {
		assert.Equal(t, wantOrder[i], step.Category)
	}
}

func TestParseContraindicationsCapsAtFive(t *testing.T) {
	text := ""
	for i := 0; i < 8; i++ {
		text += "This drug carries a risk of interaction.\n"
	}
	assert.Len(t, parseContraindications(text), 5)
}

func TestParseRecommendationsCapsAtThree(t *testing.T) {
	text := "We recommend monitoring.\nWe suggest a follow-up.\nPlease consider alternate therapy.\nYou should also review labs.\n"
	assert.Len(t, parseRecommendations(text), 3)
}

func TestParseConclusionFallsBackToFirstSentence(t *testing.T) {
	text := "This is the first sentence of the response. More detail follows."
	assert.Equal(t, "This is the first sentence of the response.", parseConclusion(text))
}

func TestSafeFallbackMatchesSpecDefaults(t *testing.T) {
	result := safeFallback("boom")
	assert.Equal(t, domain.MatchRequiresReview, result.EligibilityStatus)
	assert.Equal(t, 0.0, result.ConfidenceScore)
	assert.Empty(t, result.ReasoningChain)
	assert.Equal(t, []string{"Assessment error - manual review needed"}, result.Contraindications)
	assert.Equal(t, []string{"Consult with medical professional for eligibility determination"}, result.Recommendations)
	assert.Equal(t, "boom", result.Metadata["error"])
}
