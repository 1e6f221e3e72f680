package orchestrator

import (
	"regexp"
	"strings"

	"github.com/medmatch/matching-core/internal/domain"
	"github.com/medmatch/matching-core/internal/reasoning"
)

// categoryKeywords is the rubric from spec.md §4.6 step 5 for mapping
// C5's free-text reasoning-step content onto the closed
// domain.ReasoningCategory set. Checked in order; the first match wins.
var categoryKeywords = []struct {
	keywords []string
	category domain.ReasoningCategory
}{
	{[]string{"demographic", "age"}, domain.CategoryAgeCheck},
	{[]string{"risk", "exclusion", "contraindication"}, domain.CategoryExclusionCheck},
	{[]string{"condition", "diagnosis", "disease"}, domain.CategoryConditionMatch},
	{[]string{"medication", "drug", "treatment"}, domain.CategoryMedicationCompat},
	{[]string{"allergy"}, domain.CategoryAllergyCheck},
	{[]string{"location", "geographic"}, domain.CategoryLocationProximity},
	{[]string{"status", "recruiting"}, domain.CategoryTrialStatusCheck},
	{[]string{"lab", "laboratory"}, domain.CategoryLabValuesCheck},
	{[]string{"inclusion", "criteria"}, domain.CategoryInclusionCheck},
}

// categorizeStep maps a raw reasoning step onto the closed category
// set by scanning its free-text content for the rubric's keywords as
// whole words (an optional plural "s" allowed, so "agent" is not "age"),
// defaulting to inclusion_check when nothing matches.
func categorizeStep(step reasoning.RawStep) domain.ReasoningCategory {
	haystack := strings.ToLower(step.Category + " " + step.Details)
	for _, rule := range categoryKeywords {
		for _, kw := range rule.keywords {
			if regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `s?\b`).MatchString(haystack) {
				return rule.category
			}
		}
	}
	return domain.CategoryInclusionCheck
}

// resultFromStep maps C5's per-step confidence into the closed
// domain.ReasoningResult set: low confidence reads as a fail so
// domain.HasDisqualifyingFailure can see it, high confidence as a pass,
// anything in between as partial.
func resultFromStep(step reasoning.RawStep) domain.ReasoningResult {
	switch {
	case step.Confidence >= 0.7:
		return domain.ResultPass
	case step.Confidence <= 0.3:
		return domain.ResultFail
	default:
		return domain.ResultPartial
	}
}

// buildReasoningChain converts C5's raw reasoning chain into the
// closed, numbered domain.ReasoningStep chain attached to a
// domain.MatchResult.
func buildReasoningChain(raw []reasoning.RawStep) []domain.ReasoningStep {
	chain := make([]domain.ReasoningStep, 0, len(raw))
	for _, step := range raw {
		confidence := step.Confidence
		chain = append(chain, domain.ReasoningStep{
			Category: categorizeStep(step),
			Result:   resultFromStep(step),
			Details:  step.Details,
			Score:    &confidence,
		})
	}
	return domain.RenumberSteps(chain)
}
